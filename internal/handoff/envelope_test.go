package handoff

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threatflux/secureReviewGo/internal/models"
)

func TestEnvelope(t *testing.T) {
	env := With("payload")
	v, ok := env.Get()
	assert.True(t, ok)
	assert.Equal(t, "payload", v)

	empty := Empty[string]()
	_, ok = empty.Get()
	assert.False(t, ok)
	assert.False(t, empty.Present())

	// A present zero value is still present
	assert.True(t, With(0).Present())
}

func TestFrom(t *testing.T) {
	vuln := models.Vulnerability{ID: "XSS_1"}

	assert.True(t, From[models.Vulnerability](vuln).Present())
	assert.True(t, From[models.Vulnerability](&vuln).Present())
	assert.True(t, From[models.Vulnerability](With(vuln)).Present())

	var nilVuln *models.Vulnerability
	assert.False(t, From[models.Vulnerability](nilVuln).Present())
	assert.False(t, From[models.Vulnerability](nil).Present())
	assert.False(t, From[models.Vulnerability]("scan-1").Present())
	assert.False(t, From[models.Vulnerability](With(models.ScanResult{})).Present())

	got, _ := From[models.Vulnerability](&vuln).Get()
	assert.Equal(t, "XSS_1", got.ID)
}

func TestResolvePrefersHandoff(t *testing.T) {
	called := false
	fetch := func(ctx context.Context) (string, error) {
		called = true
		return "fetched", nil
	}

	res := Resolve(context.Background(), With("handed"), fetch)
	assert.True(t, res.Ready())
	assert.Equal(t, "handed", res.Value)
	assert.Equal(t, SourceHandoff, res.Source)
	assert.False(t, called)
}

func TestResolveFallsBack(t *testing.T) {
	notInMemory := func(ctx context.Context) (string, error) { return "", ErrEntityNotFound }
	fetch := func(ctx context.Context) (string, error) { return "fetched", nil }

	res := Resolve(context.Background(), Empty[string](), notInMemory, nil, fetch)
	require.True(t, res.Ready())
	assert.Equal(t, "fetched", res.Value)
	assert.Equal(t, SourceFallback, res.Source)
	assert.Empty(t, res.Actions)
}

func TestResolveNotAvailable(t *testing.T) {
	res := Resolve[string](context.Background(), Empty[string]())
	assert.Equal(t, StatusNotAvailable, res.Status)
	assert.ErrorIs(t, res.Err, ErrEntityNotFound)
	assert.Equal(t, []Action{ActionBack}, res.Actions)

	serviceErr := errors.New("analysis service unavailable")
	second := false
	res = Resolve(context.Background(), Empty[string](),
		func(ctx context.Context) (string, error) { return "", serviceErr },
		func(ctx context.Context) (string, error) { second = true; return "x", nil },
	)
	assert.Equal(t, StatusNotAvailable, res.Status)
	assert.ErrorIs(t, res.Err, serviceErr)
	assert.Equal(t, []Action{ActionBack}, res.Actions)
	assert.False(t, second)
}

func TestLoading(t *testing.T) {
	assert.Equal(t, StatusLoading, Loading[int]().Status)
	assert.False(t, Loading[int]().Ready())
}
