package models

// Snapshot is one complete delivery of the collection's current contents over
// the watch stream, in canonical order (creation time descending).
type Snapshot struct {
	Records []Record `json:"records"`
}
