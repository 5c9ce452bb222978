package main

import (
	"os"

	"familyfinance/cli"
)

// @title 家庭记账 API
// @version 1.0
// @description 家庭收支与月度预算管理，支出变更时可选同步预算已用金额
// @BasePath /

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
