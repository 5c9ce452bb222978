package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"familyfinance/database"
	"familyfinance/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listCategories(t *testing.T, r *gin.Engine) []models.ExpenseCategory {
	t.Helper()
	w := doJSON(t, r, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.ExpenseCategory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	return list
}

func TestCategoryHandler_CRUD(t *testing.T) {
	r, db := newTestRouter(t)
	require.NoError(t, database.SeedCategories(db))

	list := listCategories(t, r)
	require.Len(t, list, len(models.DefaultCategories()))
	assert.Equal(t, "Groceries", list[0].Name)

	w := doJSON(t, r, http.MethodPost, "/api/categories", map[string]interface{}{"name": "Pets", "sort": 5})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := uint(decodeResponse(t, w).ID.(float64))

	// 名称重复
	w = doJSON(t, r, http.MethodPost, "/api/categories", map[string]interface{}{"name": "Pets"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	list = listCategories(t, r)
	assert.Equal(t, "Pets", list[0].Name)
	assert.Equal(t, models.DefaultCategoryColor, list[0].Color)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/categories/%d", id), map[string]interface{}{"name": "Groceries"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/categories/%d", id), map[string]interface{}{"color": "#000000", "sort": 999})
	require.Equal(t, http.StatusOK, w.Code)
	list = listCategories(t, r)
	assert.Equal(t, "Pets", list[len(list)-1].Name)
	assert.Equal(t, "#000000", list[len(list)-1].Color)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/categories/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, listCategories(t, r), len(models.DefaultCategories()))

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/categories/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWalletHandler_CRUD(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/wallets", map[string]interface{}{"name": "Family card", "type": "bank", "balance": 1000.456})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := uint(decodeResponse(t, w).ID.(float64))

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/wallets/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var wallet models.Wallet
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wallet))
	assert.Equal(t, "CNY", wallet.Currency)
	assert.Equal(t, "1000.46", wallet.Balance.StringFixed(2))

	w = doJSON(t, r, http.MethodPost, "/api/wallets", map[string]interface{}{"name": "Cash", "currency": "EURO"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/wallets/%d", id), map[string]interface{}{"name": "Joint", "currency": "USD"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/wallets", nil)
	var list []models.Wallet
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Joint", list[0].Name)
	assert.Equal(t, "USD", list[0].Currency)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/wallets/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/wallets/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
