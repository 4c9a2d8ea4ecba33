package models

type Importance string

const (
	ImportanceLow    Importance = "low"
	ImportanceNormal Importance = "normal"
	ImportanceHigh   Importance = "high"
)

var Importances = []Importance{ImportanceLow, ImportanceNormal, ImportanceHigh}

type Status string

const (
	StatusNotStarted      Status = "notStarted"
	StatusInProgress      Status = "inProgress"
	StatusCompleted       Status = "completed"
	StatusWaitingOnOthers Status = "waitingOnOthers"
	StatusDeferred        Status = "deferred"
)

var Statuses = []Status{
	StatusNotStarted,
	StatusInProgress,
	StatusCompleted,
	StatusWaitingOnOthers,
	StatusDeferred,
}

type ContentType string

const (
	ContentTypeText ContentType = "text"
	ContentTypeHTML ContentType = "html"
)

var ContentTypes = []ContentType{ContentTypeText, ContentTypeHTML}

// Content is the body of a task. An empty Type is sent as html.
type Content struct {
	Value string
	Type  ContentType
}

func NewContent(value string) Content {
	return Content{Value: value, Type: ContentTypeHTML}
}

func (c Content) String() string {
	return c.Value
}
