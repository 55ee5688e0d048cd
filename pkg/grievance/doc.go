// Package grievance gates outbound grievances on partner verification.
//
// Submit sends nothing unless the partner email has a verified record.
// Grievances are not stored; the email is the only copy.
package grievance
