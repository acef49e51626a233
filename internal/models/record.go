package models

import "time"

// Artifact lifecycle for the rendered PDF attached to a record.
const (
	ArtifactPending = "pending"
	ArtifactReady   = "ready"
	ArtifactFailed  = "failed"
)

// Record is the shared shape of all domain documents (customers, work orders,
// service tickets, sprinkler tests, alarms). Entity-specific fields live in
// Doc; the columns every table shares are first-class.
type Record struct {
	ID             string         `json:"id"`
	CreatedBy      string         `json:"createdBy"`
	Doc            map[string]any `json:"-"`
	Ticket         string         `json:"ticket,omitempty"`
	ArtifactStatus string         `json:"artifactStatus"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// Flatten merges the payload with the common fields into one response object,
// optionally projected down to the requested payload keys.
func (r *Record) Flatten(fields []string) map[string]any {
	out := make(map[string]any, len(r.Doc)+6)
	if len(fields) == 0 {
		for k, v := range r.Doc {
			out[k] = v
		}
	} else {
		for _, f := range fields {
			if v, ok := r.Doc[f]; ok {
				out[f] = v
			}
		}
	}
	out["id"] = r.ID
	out["createdBy"] = r.CreatedBy
	out["artifactStatus"] = r.ArtifactStatus
	out["createdAt"] = r.CreatedAt
	out["updatedAt"] = r.UpdatedAt
	if r.Ticket != "" {
		out["ticket"] = r.Ticket
	}
	return out
}
