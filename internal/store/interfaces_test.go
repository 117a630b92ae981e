package store_test

import (
	"jobmate/recruiter-service/internal/billing"
	"jobmate/recruiter-service/internal/dashboard"
	"jobmate/recruiter-service/internal/kanban"
	"jobmate/recruiter-service/internal/ledger"
	"jobmate/recruiter-service/internal/store"
)

var (
	_ dashboard.Source = (*store.Store)(nil)
	_ kanban.Store     = (*store.Store)(nil)
	_ ledger.Store     = (*store.Store)(nil)
	_ billing.Store    = (*store.Store)(nil)
)
