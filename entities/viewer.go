package entities

// Viewer is a spectating participant: membership and a credential, but
// no position and no team.
type Viewer struct {
	Id       string
	Token    string
	Username string

	Client
}

type ViewerSnapshot struct {
	Id       string `json:"id"`
	Username string `json:"username"`
}

func (viewer *Viewer) Snapshot() ViewerSnapshot {
	return ViewerSnapshot{
		Id:       viewer.Id,
		Username: viewer.Username,
	}
}
