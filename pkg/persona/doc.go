// Package persona derives per-user behavioral tags from a batch of task records.
//
// Tasks are filtered by an optional start time window, grouped by requester identity
// (req_unit + "_" + req_group), joined against target metadata and reduced to six
// statistical tags per user. The package holds no global state: every call to
// Generate works only on the collections it is handed and reports progress through
// the Observer supplied in its Options.
package persona
