package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sigs(emails ...string) []SignatureRecord {
	out := make([]SignatureRecord, 0, len(emails))
	for _, e := range emails {
		out = append(out, SignatureRecord{Email: e, ImageData: "data:image/png;base64,AAAA"})
	}
	return out
}

func twoEmployees() Roster {
	return NewRoster(
		[]Person{{Email: "a@x.com"}, {Email: "b@x.com"}},
		[]Person{{Email: "hr@x.com"}},
		nil,
	)
}

func TestComputeSnapshotProgression(t *testing.T) {
	r := twoEmployees()

	snap := ComputeSnapshot(sigs("a@x.com"), r)
	assert.Equal(t, 1, snap.SignedCount)
	assert.Equal(t, 2, snap.RosterCount)
	assert.False(t, snap.IsComplete)
	assert.Empty(t, snap.Key)
	assert.Equal(t, 50, snap.Percent())

	snap = ComputeSnapshot(sigs("a@x.com", "b@x.com"), r)
	assert.Equal(t, 2, snap.SignedCount)
	assert.True(t, snap.IsComplete)
	assert.NotEmpty(t, snap.Key)
	assert.Equal(t, 100, snap.Percent())
}

func TestComputeSnapshotEmptyRosterNeverComplete(t *testing.T) {
	snap := ComputeSnapshot(sigs("a@x.com", "b@x.com"), Roster{})
	assert.False(t, snap.IsComplete)
	assert.Equal(t, 0, snap.RosterCount)
	assert.Equal(t, 0, snap.Percent())
	assert.Equal(t, 2, snap.TotalSignatures)
}

func TestComputeSnapshotCaseInsensitive(t *testing.T) {
	snap := ComputeSnapshot(sigs("A@X.com", " b@x.COM"), twoEmployees())
	assert.True(t, snap.IsComplete)
}

func TestComputeSnapshotIgnoresApprovers(t *testing.T) {
	r := twoEmployees()

	snap := ComputeSnapshot(sigs("a@x.com", "hr@x.com"), r)
	assert.False(t, snap.IsComplete)
	assert.Equal(t, 1, snap.SignedCount)
	assert.Equal(t, 2, snap.TotalSignatures)

	withApprover := ComputeSnapshot(sigs("a@x.com", "b@x.com", "hr@x.com"), r)
	without := ComputeSnapshot(sigs("a@x.com", "b@x.com"), r)
	assert.True(t, withApprover.IsComplete)
	assert.Equal(t, without.Key, withApprover.Key)
}

func TestComputeSnapshotRosterGrowthBreaksCompletion(t *testing.T) {
	signed := sigs("a@x.com", "b@x.com")
	assert.True(t, ComputeSnapshot(signed, twoEmployees()).IsComplete)

	grown := NewRoster(
		[]Person{{Email: "a@x.com"}, {Email: "b@x.com"}, {Email: "c@x.com"}},
		[]Person{{Email: "hr@x.com"}},
		nil,
	)
	snap := ComputeSnapshot(signed, grown)
	assert.False(t, snap.IsComplete)
	assert.Equal(t, 67, snap.Percent())
}

func TestComputeSnapshotKeyIsOrderIndependent(t *testing.T) {
	r := twoEmployees()
	k1 := ComputeSnapshot(sigs("a@x.com", "b@x.com"), r).Key
	k2 := ComputeSnapshot(sigs("b@x.com", "a@x.com"), r).Key
	assert.Equal(t, k1, k2)
}

func TestProgress(t *testing.T) {
	signed, pending := Progress(sigs("B@x.com"), twoEmployees())
	assert.Equal(t, []Person{{Email: "b@x.com", Role: RoleEmployee}}, signed)
	assert.Equal(t, []Person{{Email: "a@x.com", Role: RoleEmployee}}, pending)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ann", SignatureRecord{Name: "Ann", Email: "ann@x.com"}.DisplayName())
	assert.Equal(t, "ann@x.com", SignatureRecord{Email: "ann@x.com"}.DisplayName())
}
