// Package aggregates persists the course aggregate.
//
// CourseStore composes the table repos from internal/data/repos and owns the
// transaction, course lock and version compare-and-set around every write.
package aggregates
