package artifact

import "time"

// Rock is a multi-week business objective with an owner and weekly
// milestones, normalized into Task records.
type Rock struct {
	ID           string    `json:"id" db:"id"`
	QuarterID    string    `json:"quarter_id" db:"quarter_id"`
	Title        string    `json:"title" db:"title"`
	Owner        string    `json:"owner" db:"owner"`
	OwnerID      string    `json:"owner_id,omitempty" db:"owner_id"`
	Designation  string    `json:"designation" db:"designation"`
	LinkedIssues []string  `json:"linked_issues" db:"-"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Task is one weekly milestone belonging to a rock.
type Task struct {
	ID        string    `json:"id" db:"id"`
	RockID    string    `json:"rock_id" db:"rock_id"`
	Week      int       `json:"week" db:"week"`
	Milestone string    `json:"milestone" db:"milestone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Todo is a short-horizon action item with a single assignee.
type Todo struct {
	ID         string    `json:"id" db:"id"`
	QuarterID  string    `json:"quarter_id" db:"quarter_id"`
	Task       string    `json:"task" db:"task"`
	Details    string    `json:"details" db:"details"`
	Assignee   string    `json:"assignee" db:"assignee"`
	AssigneeID string    `json:"assignee_id,omitempty" db:"assignee_id"`
	DueDate    string    `json:"due_date" db:"due_date"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Issue is a problem raised in the meeting, optionally linked to a solution.
type Issue struct {
	ID             string    `json:"id" db:"id"`
	QuarterID      string    `json:"quarter_id" db:"quarter_id"`
	Title          string    `json:"title" db:"title"`
	Description    string    `json:"description" db:"description"`
	Raiser         string    `json:"raiser" db:"raiser"`
	RaiserID       string    `json:"raiser_id,omitempty" db:"raiser_id"`
	LinkedSolution string    `json:"linked_solution" db:"linked_solution"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// RuntimeSolution is a problem resolved within the meeting itself, needing
// no scheduled follow-up.
type RuntimeSolution struct {
	ID         string    `json:"id" db:"id"`
	QuarterID  string    `json:"quarter_id" db:"quarter_id"`
	Problem    string    `json:"problem" db:"problem"`
	Solution   string    `json:"solution" db:"solution"`
	Resolver   string    `json:"resolver" db:"resolver"`
	ResolverID string    `json:"resolver_id,omitempty" db:"resolver_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Batch is the complete artifact set of one pipeline run, handed to the
// persistence collaborator as a unit.
type Batch struct {
	SessionSummary   string            `json:"session_summary"`
	Rocks            []Rock            `json:"rocks"`
	Tasks            []Task            `json:"tasks"`
	Todos            []Todo            `json:"todos"`
	Issues           []Issue           `json:"issues"`
	RuntimeSolutions []RuntimeSolution `json:"runtime_solutions"`
}

// Empty reports whether the batch carries no artifacts at all.
func (b Batch) Empty() bool {
	return len(b.Rocks) == 0 && len(b.Tasks) == 0 && len(b.Todos) == 0 &&
		len(b.Issues) == 0 && len(b.RuntimeSolutions) == 0
}
