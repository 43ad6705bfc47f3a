package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
	"github.com/custodia-labs/pdfpanel/internal/core/services"
)

func TestState_NotConfigured(t *testing.T) {
	SetServices(nil)

	_, err := execute(t, "", "state")
	assert.EqualError(t, err, "workspace state not configured")

	_, err = execute(t, "", "state", "clear")
	assert.EqualError(t, err, "workspace state not configured")
}

func TestStateShow_Empty(t *testing.T) {
	testServices(t)

	out, err := execute(t, "", "state")

	require.NoError(t, err)
	assert.Contains(t, out, "[View] (defaults, nothing stored)")
	assert.Contains(t, out, "Outline:  200px")
	assert.Contains(t, out, "[Find]\n  (none)")
	assert.Contains(t, out, "[Documents]\n  (none)")
}

func TestStateShow_Stored(t *testing.T) {
	s := testServices(t)
	ctx := context.Background()
	require.NoError(t, s.Workspace.SetViewState(ctx, domain.ViewState{
		SpreadMode:  domain.SpreadEven,
		ScrollMode:  domain.ScrollWrapped,
		ZoomMode:    domain.ZoomPageFit,
		OutlineSize: "0px",
	}))
	require.NoError(t, s.Workspace.SetFindState(ctx, domain.FindState{
		Query:   "lemma",
		Options: domain.FindOptions{CaseSensitive: true},
	}))
	require.NoError(t, s.Workspace.SetPageNumber(ctx, "/docs/b.pdf", 12))
	require.NoError(t, s.Workspace.SetPageNumber(ctx, "/docs/a.pdf", 3))

	out, err := execute(t, "", "state", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "[View]\n")
	assert.Contains(t, out, "Spread:   even")
	assert.Contains(t, out, "Zoom:     Page Fit")
	assert.Contains(t, out, `Query:    "lemma"`)
	assert.Contains(t, out, "case sensitive=true")
	assert.Regexp(t, `page 3 +/docs/a\.pdf\n  page 12 +/docs/b\.pdf`, out)
}

func TestStateShow_JSON(t *testing.T) {
	s := testServices(t)
	ctx := context.Background()
	require.NoError(t, s.Workspace.SetPageNumber(ctx, "/docs/a.pdf", 5))

	out, err := execute(t, "", "state", "show", "--json")

	require.NoError(t, err)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &raw))
	assert.Contains(t, raw, services.KeyDocumentState)
	assert.NotContains(t, raw, services.KeyViewState)
}

func TestStateClear(t *testing.T) {
	s := testServices(t)
	ctx := context.Background()
	require.NoError(t, s.Workspace.SetPageNumber(ctx, "/docs/a.pdf", 5))

	out, err := execute(t, "", "state", "clear")

	require.NoError(t, err)
	assert.Contains(t, out, "Workspace state cleared.")
	assert.Empty(t, s.Workspace.DocumentStates(ctx))
}
