// Package bgprocv1 defines the wire contract between the bgproc daemon and
// its clients. Messages travel as JSON through the codec registered in
// codec.go.
package bgprocv1

// Process is one registry entry as seen by clients.
type Process struct {
	Id                  string   `json:"id"`
	Name                string   `json:"name"`
	Command             string   `json:"command"`
	Status              string   `json:"status"`
	Output              []string `json:"output,omitempty"`
	OutputLines         int32    `json:"output_lines,omitempty"`
	StartedAtUnixNano   int64    `json:"started_at_unix_nano,omitempty"`
	CompletedAtUnixNano int64    `json:"completed_at_unix_nano,omitempty"`
	Error               string   `json:"error,omitempty"`
	SessionId           string   `json:"session_id,omitempty"`
	Tags                []string `json:"tags,omitempty"`
	Pid                 int32    `json:"pid,omitempty"`
	Global              bool     `json:"global,omitempty"`
}

func (p *Process) GetId() string {
	if p == nil {
		return ""
	}
	return p.Id
}

func (p *Process) GetStatus() string {
	if p == nil {
		return ""
	}
	return p.Status
}

type CreateRequest struct {
	Command   string   `json:"command"`
	Name      string   `json:"name,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	SessionId string   `json:"session_id,omitempty"`
	Global    bool     `json:"global,omitempty"`
}

type CreateResponse struct {
	Id string `json:"id"`
}

func (r *CreateResponse) GetId() string {
	if r == nil {
		return ""
	}
	return r.Id
}

type GetRequest struct {
	Id string `json:"id"`
}

type GetResponse struct {
	Process *Process `json:"process"`
}

func (r *GetResponse) GetProcess() *Process {
	if r == nil {
		return nil
	}
	return r.Process
}

// ListRequest selects processes. Empty fields match everything; tags match
// when a process carries any of them.
type ListRequest struct {
	SessionId string   `json:"session_id,omitempty"`
	Status    string   `json:"status,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

type ListResponse struct {
	Processes []*Process `json:"processes"`
}

func (r *ListResponse) GetProcesses() []*Process {
	if r == nil {
		return nil
	}
	return r.Processes
}

// TerminateRequest targets one id, or every process matching the filter
// fields when Id is empty.
type TerminateRequest struct {
	Id        string   `json:"id,omitempty"`
	SessionId string   `json:"session_id,omitempty"`
	Status    string   `json:"status,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

type TerminateResponse struct {
	Ids []string `json:"ids"`
}

func (r *TerminateResponse) GetIds() []string {
	if r == nil {
		return nil
	}
	return r.Ids
}

type RemoveRequest struct {
	Id string `json:"id"`
}

type RemoveResponse struct{}

type EndSessionRequest struct {
	SessionId string `json:"session_id"`
}

type EndSessionResponse struct {
	Ids []string `json:"ids"`
}

func (r *EndSessionResponse) GetIds() []string {
	if r == nil {
		return nil
	}
	return r.Ids
}

type Notice struct {
	SessionId  string `json:"session_id"`
	Text       string `json:"text"`
	AtUnixNano int64  `json:"at_unix_nano"`
}

type NoticesRequest struct {
	SessionId string `json:"session_id"`
	Drain     bool   `json:"drain,omitempty"`
}

type NoticesResponse struct {
	Notices []*Notice `json:"notices"`
}

func (r *NoticesResponse) GetNotices() []*Notice {
	if r == nil {
		return nil
	}
	return r.Notices
}

type Event struct {
	Kind       string `json:"kind"`
	ProcessId  string `json:"process_id"`
	SessionId  string `json:"session_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Command    string `json:"command,omitempty"`
	Pid        int32  `json:"pid,omitempty"`
	Detail     string `json:"detail,omitempty"`
	AtUnixNano int64  `json:"at_unix_nano"`
}

type HistoryRequest struct {
	SessionId string `json:"session_id,omitempty"`
	ProcessId string `json:"process_id,omitempty"`
	Limit     int32  `json:"limit,omitempty"`
}

type HistoryResponse struct {
	Events []*Event `json:"events"`
}

func (r *HistoryResponse) GetEvents() []*Event {
	if r == nil {
		return nil
	}
	return r.Events
}

type PingRequest struct{}

type PingResponse struct {
	Ok     string           `json:"ok"`
	Total  int32            `json:"total"`
	Counts map[string]int32 `json:"counts,omitempty"`
}

func (r *PingResponse) GetOk() string {
	if r == nil {
		return ""
	}
	return r.Ok
}
