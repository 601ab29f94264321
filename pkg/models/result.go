package models

import "time"

// ListResults summarizes one run of the lister
type ListResults struct {
	StartTime time.Time     `json:"start_time" yaml:"start_time"`
	EndTime   time.Time     `json:"end_time" yaml:"end_time"`
	Duration  time.Duration `json:"duration" yaml:"duration"`

	Roots       int `json:"roots" yaml:"roots"`
	FailedRoots int `json:"failed_roots" yaml:"failed_roots"`
	Entries     int `json:"entries" yaml:"entries"`
	Dirs        int `json:"dirs" yaml:"dirs"`
	Errors      int `json:"errors" yaml:"errors"`

	ErrorPaths []string `json:"error_paths,omitempty" yaml:"error_paths,omitempty"`
}

// AddError records a failed path
func (r *ListResults) AddError(path string) {
	r.Errors++
	r.ErrorPaths = append(r.ErrorPaths, path)
}

// AllRootsFailed reports whether no root argument could be listed
func (r *ListResults) AllRootsFailed() bool {
	return r.Roots > 0 && r.FailedRoots == r.Roots
}
