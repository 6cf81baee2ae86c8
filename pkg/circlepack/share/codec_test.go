package share

import (
	"encoding/base64"
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/circlepack-go/pkg/circlepack/hierarchy"
	"github.com/ukaji3/circlepack-go/pkg/circlepack/models"
)

func samplePayload() Payload {
	circles, _ := hierarchy.Aggregate([]models.OrganizationRow{
		{CircleName: "Eng & Ops", Role: "Dev", FTE: 0.5},
		{CircleName: "Eng & Ops", Role: "Dev", FTE: 0.5},
		{CircleName: "Ventes été", Role: "Rep/Lead", FTE: 0},
		{CircleName: "Big", Role: "Admin", FTE: 15.125},
	}, hierarchy.AggregateOptions{})

	return Payload{
		Org: hierarchy.Build(circles),
		People: []models.AssignmentRow{
			{CircleName: "Eng & Ops", RoleName: "Dev", PersonName: "Alice+Bob", FTE: 0.5},
			{CircleName: "Ventes été", RoleName: "Rep/Lead", PersonName: "Zoë", FTE: 0},
		},
		Name: "Q3 plan 100%",
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
	}{
		{"sample", samplePayload()},
		{"no people", Payload{Org: samplePayload().Org, Name: ""}},
		{"empty org", Payload{Org: hierarchy.Build(nil), People: []models.AssignmentRow{}, Name: "empty"}},
	}

	for _, tt := range tests {
		token, err := EncodeToken(tt.payload)
		require.NoError(t, err, tt.name)

		got, err := DecodeToken(token)
		require.NoError(t, err, tt.name)
		if diff := cmp.Diff(tt.payload, got); diff != "" {
			t.Errorf("%s: round trip mismatch (-want +got):\n%s", tt.name, diff)
		}
	}
}

func TestDecodeTokenAcceptsURLSafeBase64(t *testing.T) {
	p := samplePayload()
	token, err := EncodeToken(p)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)

	got, err := DecodeToken(base64.RawURLEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
}

func TestDecodeTokenErrors(t *testing.T) {
	encode := func(s string) string {
		return base64.StdEncoding.EncodeToString([]byte(s))
	}

	tests := []struct {
		name  string
		token string
		step  string
	}{
		{"not base64", "%%%", "base64"},
		{"bad escape", encode("%zz"), "unescape"},
		{"not json", encode(url.QueryEscape("{org:")), "json"},
		{"missing org", encode(url.QueryEscape(`{"people":[],"name":"x"}`)), "validate"},
		{"null org", encode(url.QueryEscape(`{"org":null,"people":[],"name":"x"}`)), "validate"},
		{"wrong types", encode(url.QueryEscape(`{"org":{"name":1},"name":"x"}`)), "json"},
	}

	for _, tt := range tests {
		got, err := DecodeToken(tt.token)

		var decodeErr *DecodeError
		require.True(t, errors.As(err, &decodeErr), "%s: expected DecodeError, got %v", tt.name, err)
		assert.Equal(t, tt.step, decodeErr.Step, tt.name)
		assert.Equal(t, Payload{}, got, "%s: partial payload returned", tt.name)
	}
}
