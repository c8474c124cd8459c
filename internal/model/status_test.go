package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusForDisposition(t *testing.T) {
	cases := []struct {
		disposition Disposition
		want        ContactStatus
	}{
		{DispositionSale, StatusClosed},
		{DispositionNotInterested, StatusClosed},
		{DispositionCallback, StatusFollowUp},
		{DispositionFollowUpRequired, StatusFollowUp},
		{DispositionInterested, StatusFollowUp},
		{DispositionAppointmentSet, StatusFollowUp},
		{DispositionAnsweringMachine, StatusUnreachable},
		{DispositionBusy, StatusUnreachable},
		{DispositionNoAnswer, StatusUnreachable},
		{DispositionUnreachable, StatusUnreachable},
		{DispositionWrongNumber, StatusUnreachable},
		{DispositionDNC, StatusDoNotContact},
	}

	for _, tc := range cases {
		t.Run(string(tc.disposition), func(t *testing.T) {
			got, ok := StatusForDisposition(tc.disposition)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestStatusForDispositionUnknown(t *testing.T) {
	for _, raw := range []string{"", "sale", "HANGUP", "SALE "} {
		_, ok := StatusForDisposition(Disposition(raw))
		assert.False(t, ok, "disposition %q should be rejected", raw)
	}
}

func TestStatusForDispositionNeverYieldsLock(t *testing.T) {
	// The lock status is set only through the direct status endpoint, so no
	// call outcome may produce it.
	for d := range dispositionStatus {
		status, _ := StatusForDisposition(d)
		assert.NotEqual(t, StatusExclusiveLock, status, "disposition %q", d)
	}
}

func TestValidContactStatus(t *testing.T) {
	for _, s := range ContactStatuses {
		assert.True(t, ValidContactStatus(s))
	}
	assert.False(t, ValidContactStatus("new"))
	assert.False(t, ValidContactStatus(""))
	assert.False(t, ValidContactStatus("Archived"))
}
