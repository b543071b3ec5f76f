package handler

import (
	commonhandler "finance-dashboard-go/internal/transport/httpserver/handler/common"
	transactionshandler "finance-dashboard-go/internal/transport/httpserver/handler/transactions"
)

type Handlers struct {
	Common       *commonhandler.Handlers
	Transactions *transactionshandler.Handlers
}

func New(common *commonhandler.Handlers, transactions *transactionshandler.Handlers) *Handlers {
	return &Handlers{
		Common:       common,
		Transactions: transactions,
	}
}
