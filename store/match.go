package store

import (
	"sort"

	"familyfinance/models"
)

// MatchOptional 三值匹配：行内值为 NULL 时匹配任意值；
// 行内有值时要求支出上的值存在且相等
func MatchOptional(rowValue, value *string) bool {
	if rowValue == nil {
		return true
	}
	return value != nil && *rowValue == *value
}

// Matches 判断预算分类是否匹配某笔支出的分类信息
func Matches(c models.BudgetCategory, category string, typ, subCategory *string) bool {
	return c.Category == category &&
		MatchOptional(c.Type, typ) &&
		MatchOptional(c.SubCategory, subCategory)
}

func specificity(c models.BudgetCategory) int {
	n := 0
	if c.Type != nil {
		n++
	}
	if c.SubCategory != nil {
		n++
	}
	return n
}

// BestMatch 在候选分类中选出最具体的匹配项（非 NULL 限定越多越优先，相同则按 ID）
func BestMatch(candidates []models.BudgetCategory, category string, typ, subCategory *string) *models.BudgetCategory {
	matched := make([]models.BudgetCategory, 0, len(candidates))
	for _, c := range candidates {
		if Matches(c, category, typ, subCategory) {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 {
		return nil
	}
	sort.SliceStable(matched, func(i, j int) bool {
		si, sj := specificity(matched[i]), specificity(matched[j])
		if si != sj {
			return si > sj
		}
		return matched[i].ID < matched[j].ID
	})
	best := matched[0]
	return &best
}
