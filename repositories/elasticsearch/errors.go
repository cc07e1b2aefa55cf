package elasticsearch

import (
	"fmt"

	"github.com/Jeffail/gabs"
	"github.com/elastic/go-elasticsearch/v7/esapi"
)

const resourceAlreadyExists = "resource_already_exists_exception"

// ConnectionError is returned when elasticsearch could not be reached
// (or the call ran out of time) before a response was received.
type ConnectionError struct {
	Op    string
	Index string
	Err   error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("elasticsearch %s on %s: connection failed: %v", e.Op, e.Index, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// WriteError is returned when elasticsearch answered a write
// (index creation or document indexing) with an error status.
type WriteError struct {
	Op     string
	Index  string
	Status int
	Type   string
	Reason string
}

func (e *WriteError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("elasticsearch %s on %s rejected: status %d", e.Op, e.Index, e.Status)
	}
	return fmt.Sprintf("elasticsearch %s on %s rejected: status %d: %s: %s", e.Op, e.Index, e.Status, e.Type, e.Reason)
}

// writeErrorFrom reads the error type and reason out of an
// elasticsearch error response, i.e.
// {"error": {"type": "...", "reason": "..."}, "status": 400}
func writeErrorFrom(op string, index string, res *esapi.Response) *WriteError {
	werr := &WriteError{Op: op, Index: index, Status: res.StatusCode}

	parsed, err := gabs.ParseJSONDecoder(jsonDecoder(res.Body))
	if err != nil {
		return werr
	}

	if errType, ok := parsed.Path("error.type").Data().(string); ok {
		werr.Type = errType
		werr.Reason, _ = parsed.Path("error.reason").Data().(string)
	} else if reason, ok := parsed.Path("error").Data().(string); ok {
		werr.Reason = reason
	}

	return werr
}
