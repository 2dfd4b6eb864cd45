package model

// TaskStatus is the lifecycle stage of a single download run
type TaskStatus string

// A run moves Pending -> Starting -> Downloading and ends in Completed or Error.
const (
	TaskStatusPending     TaskStatus = "Pending"
	TaskStatusStarting    TaskStatus = "Starting" // metadata query
	TaskStatusDownloading TaskStatus = "Downloading"
	TaskStatusCompleted   TaskStatus = "Completed"
	TaskStatusError       TaskStatus = "Error"
)

func (ts TaskStatus) String() string {
	return string(ts)
}

// IsFinished reports whether the run has ended, successfully or not
func (ts TaskStatus) IsFinished() bool {
	switch ts {
	case TaskStatusCompleted, TaskStatusError:
		return true
	}
	return false
}
