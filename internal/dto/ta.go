package dto

import "invest-tracker/internal/model"

// CompanyStopDTO is the stop snapshot carried inside task payloads.
type CompanyStopDTO struct {
	Period model.Period `json:"period"`
	Value  float64      `json:"value"`
}

// CompanyDTO is the company snapshot carried through the task graph.
// Tasks must not touch the database for company data, everything needed by
// the decision engine travels with the task.
type CompanyDTO struct {
	ID        uint             `json:"id"`
	Ticker    string           `json:"ticker"`
	Name      string           `json:"name"`
	Type      model.SourceType `json:"type"`
	HasShares bool             `json:"has_shares"`
	Stops     []CompanyStopDTO `json:"stops,omitempty"`
}

// StopForPeriod returns the stop value for the period, nil when absent.
func (c CompanyDTO) StopForPeriod(period model.Period) *float64 {
	for _, stop := range c.Stops {
		if stop.Period == period {
			value := stop.Value
			return &value
		}
	}
	return nil
}

// DecisionDTO is one finalized decision for a (company, period) pair.
// K/D/LastPrice are nil when the underlying data was insufficient.
type DecisionDTO struct {
	CompanyID uint           `json:"company_id"`
	Ticker    string         `json:"ticker"`
	Period    model.Period   `json:"period"`
	Decision  model.Decision `json:"decision"`
	K         *float64       `json:"k,omitempty"`
	D         *float64       `json:"d,omitempty"`
	LastPrice *float64       `json:"last_price,omitempty"`
}

// StartGenerateParams is the request to kick off a bulk generation batch.
type StartGenerateParams struct {
	UserID          uint         `json:"user_id"`
	Period          model.Period `json:"period"`
	SendMessage     bool         `json:"send_message"`
	UpdateDB        bool         `json:"update_db"`
	SendTestMessage bool         `json:"send_test_message"`
}

// GenerateTaskPayload is the payload of one map-stage task.
type GenerateTaskPayload struct {
	Company CompanyDTO   `json:"company"`
	Period  model.Period `json:"period"`
	UserID  uint         `json:"user_id"`
}

// FinalizeTaskPayload is the payload of the reduce-stage task.
type FinalizeTaskPayload struct {
	UserID          uint `json:"user_id"`
	SendMessage     bool `json:"send_message"`
	UpdateDB        bool `json:"update_db"`
	SendTestMessage bool `json:"send_test_message"`
}

// SendTelegramPayload is the payload of one notification-dispatch task.
type SendTelegramPayload struct {
	Message string `json:"message"`
}

// TaskResponse is returned at dispatch time.
type TaskResponse struct {
	ID     string           `json:"id"`
	Status model.TaskStatus `json:"status"`
}

// TaskStatusResponse is the poll answer for a dispatched batch.
type TaskStatusResponse struct {
	ID     string           `json:"id"`
	Status model.TaskStatus `json:"status"`
	Result string           `json:"result,omitempty"`
}
