// Package domain contains the users and tasks of the task board together
// with their validation rules: status transitions, name and title bounds,
// and the deadline checks applied when a task is rescheduled. It has no
// knowledge of storage or transport.
package domain
