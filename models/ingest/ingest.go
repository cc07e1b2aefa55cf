package ingest

import (
	"time"

	"github.com/google/uuid"
)

type State string

const (
	Queued  State = "Queued"
	Running State = "Running"
	Done    State = "Done"
	Error   State = "Error"
)

func (s State) Finished() bool {
	return s == Done || s == Error
}

type GeneIngestRequest struct {
	Id        uuid.UUID `json:"id"`
	Index     string    `json:"index"`
	Source    string    `json:"source"`
	State     State     `json:"state"`
	Message   string    `json:"message"`
	Attempted int       `json:"attempted"`
	Written   int       `json:"written"`
	Failures  []string  `json:"failures,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type IngestResponseDTO struct {
	Id      uuid.UUID `json:"id"`
	Index   string    `json:"index"`
	State   State     `json:"state"`
	Message string    `json:"message"`
}
