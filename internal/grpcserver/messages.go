package grpcserver

import (
	"jobmate/recruiter-service/internal/kanban"
	"jobmate/recruiter-service/internal/ledger"
	"jobmate/recruiter-service/internal/model"
)

type BuildDashboardRequest struct{}

type ListJobsRequest struct{}

type ListJobsResponse struct {
	Jobs []model.RecruiterJob `json:"jobs"`
}

type OpenJobRequest struct {
	JobID string `json:"jobId"`
}

type SetStatusRequest struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}

type SetStatusResponse struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}

type RecordCorrectionRequest = ledger.Correction

type RecordCorrectionResponse struct{}

type CorrectionStatsRequest struct{}

type JobActionsRequest struct {
	JobID string `json:"jobId"`
}

type JobActionsResponse struct {
	JobID   string              `json:"jobId"`
	Actions []kanban.Transition `json:"actions"`
}

type ApplyActionRequest struct {
	JobID  string `json:"jobId"`
	Action string `json:"action"`
}

type ApplyActionResponse struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}

type MonthlyTotalRequest struct{}
