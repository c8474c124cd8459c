package model

// ContactStatus is the derived classification of a contact, reflecting its
// most recent call outcome. Call-driven transitions are written only by the
// status engine; direct edits go through the contact status endpoint.
type ContactStatus string

const (
	StatusNew           ContactStatus = "New"
	StatusExclusiveLock ContactStatus = "Exclusive Lock"
	StatusFollowUp      ContactStatus = "Follow Up"
	StatusClosed        ContactStatus = "Closed"
	StatusUnreachable   ContactStatus = "Unreachable"
	StatusDoNotContact  ContactStatus = "Do Not Contact"
)

// ContactStatuses lists every valid contact status, for request validation.
var ContactStatuses = []ContactStatus{
	StatusNew,
	StatusExclusiveLock,
	StatusFollowUp,
	StatusClosed,
	StatusUnreachable,
	StatusDoNotContact,
}

// ValidContactStatus reports whether s is one of the known statuses.
func ValidContactStatus(s ContactStatus) bool {
	for _, known := range ContactStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Disposition is the recorded outcome of a call.
type Disposition string

const (
	DispositionSale             Disposition = "SALE"
	DispositionCallback         Disposition = "CALLBACK"
	DispositionFollowUpRequired Disposition = "FOLLOW UP REQUIRED"
	DispositionInterested       Disposition = "INTERESTED"
	DispositionAppointmentSet   Disposition = "APPOINTMENT SET"
	DispositionNotInterested    Disposition = "NOT INTERESTED"
	DispositionAnsweringMachine Disposition = "ANSWERING MACHINE"
	DispositionBusy             Disposition = "BUSY"
	DispositionNoAnswer         Disposition = "NO ANSWER"
	DispositionUnreachable      Disposition = "UNREACHABLE"
	DispositionWrongNumber      Disposition = "WRONG NUMBER"
	DispositionDNC              Disposition = "DNC"
)

// dispositionStatus maps every disposition to the contact status it implies.
// The map is total over the Disposition constants above; an unmapped value is
// a rejected (unknown) disposition, never a silent no-op.
var dispositionStatus = map[Disposition]ContactStatus{
	DispositionSale:             StatusClosed,
	DispositionNotInterested:    StatusClosed,
	DispositionCallback:         StatusFollowUp,
	DispositionFollowUpRequired: StatusFollowUp,
	DispositionInterested:       StatusFollowUp,
	DispositionAppointmentSet:   StatusFollowUp,
	DispositionAnsweringMachine: StatusUnreachable,
	DispositionBusy:             StatusUnreachable,
	DispositionNoAnswer:         StatusUnreachable,
	DispositionUnreachable:      StatusUnreachable,
	DispositionWrongNumber:      StatusUnreachable,
	DispositionDNC:              StatusDoNotContact,
}

// StatusForDisposition returns the contact status implied by a disposition.
// ok is false for dispositions outside the closed set.
func StatusForDisposition(d Disposition) (ContactStatus, bool) {
	status, ok := dispositionStatus[d]
	return status, ok
}
