package models

// BoardStats summarises the public state of the job board.
type BoardStats struct {
	ActiveJobs     int `json:"active_jobs"`
	Companies      int `json:"companies"`
	StudentsPlaced int `json:"students_placed"`
}
