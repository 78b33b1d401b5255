// Package events carries generation lifecycle notifications from the copy
// workflow to observers such as metrics and audit logging, without the
// workflow knowing who listens.
package events
