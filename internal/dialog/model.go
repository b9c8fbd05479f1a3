package dialog

type State string

const (
	StateIdle State = "idle"

	// next .xlsx is extracted and previewed, nothing is stored
	StateAwaitFormulation State = "await_formulation"
	// next .xlsx is stored as a formulation sheet of a subproject
	StateAwaitSource State = "await_source"
)

const (
	KeyKind         = "kind"
	KeySubprojectID = "subproject_id"
)

type Payload map[string]any

type Item struct {
	ChatID  int64
	State   State
	Payload Payload
}
