package di_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sijoonlee/beanlab/di"
)

func serviceContext(t *testing.T, props di.PropertySource) *di.Context {
	t.Helper()

	opts := []di.ContextOption{}
	if props != nil {
		opts = append(opts, di.WithProperties(props))
	}
	c := di.New(opts...)
	require.NoError(t, c.Provide("store", func() *Store { return &Store{DSN: "mem"} }))
	require.NoError(t, c.Provide("repo", NewRepository))
	require.NoError(t, c.Instance("logger", &Logger{Level: "debug"}))
	require.NoError(t, c.Instance("otherLogger", &Logger{Level: "info"}))
	require.NoError(t, c.Component(NewService))
	return c
}

func TestAutowire_FactoryResultIsPopulated(t *testing.T) {
	t.Parallel()

	props := di.NewMapProperties().Set("service.name", "employees")
	c := refreshed(t, serviceContext(t, props))

	svc := di.MustResolve[*Service](c)
	require.NotNil(t, svc.Repo)
	assert.Same(t, di.MustResolve[*Repository](c), svc.Repo)
	assert.Equal(t, "debug", svc.Logger.Level)
	assert.Equal(t, "employees", svc.Name)
	assert.Equal(t, 10, svc.Limit)
	assert.Equal(t, "untouched", svc.Plain)
}

func TestAutowire_PropertyOverridesDefault(t *testing.T) {
	t.Parallel()

	props := di.NewMapProperties().
		Set("service.name", "employees").
		Set("service.limit", "25")
	c := refreshed(t, serviceContext(t, props))

	svc := di.MustResolve[*Service](c)
	assert.Equal(t, 25, svc.Limit)
}

func TestAutowire_MissingProperty(t *testing.T) {
	t.Parallel()

	c := serviceContext(t, di.NewMapProperties())
	err := c.Refresh(context.Background())

	assert.ErrorIs(t, err, di.MissingPropertyError{Key: "service.name"})

	var field di.FieldInjectionError
	require.ErrorAs(t, err, &field)
	assert.Equal(t, "Name", field.Field)
}

func TestAutowire_NoPropertySource(t *testing.T) {
	t.Parallel()

	c := serviceContext(t, nil)
	err := c.Refresh(context.Background())
	assert.ErrorIs(t, err, di.ErrNoPropertySource)
}

func TestAutowire_ConversionFailure(t *testing.T) {
	t.Parallel()

	props := di.NewMapProperties().
		Set("service.name", "employees").
		Set("service.limit", "many")
	c := serviceContext(t, props)

	err := c.Refresh(context.Background())
	var conv di.PropertyConversionError
	require.ErrorAs(t, err, &conv)
	assert.Equal(t, "service.limit", conv.Key)
}

type Handler struct {
	Service *Service      `inject:""`
	Timeout time.Duration `value:"handler.timeout" default:"5s"`
	Retries int           `value:"handler.retries" default:"3"`
}

func TestAutowire_ExternalTarget(t *testing.T) {
	t.Parallel()

	props := di.NewMapProperties().
		Set("service.name", "employees").
		Set("handler.retries", 7)
	c := refreshed(t, serviceContext(t, props))

	var h Handler
	require.NoError(t, c.Autowire(&h))
	assert.Same(t, di.MustResolve[*Service](c), h.Service)
	assert.Equal(t, 5*time.Second, h.Timeout)
	assert.Equal(t, 7, h.Retries)
}

type defaultsOnly struct {
	Port int    `value:"port" default:"8080"`
	Host string `value:"host" default:"localhost"`
}

func TestAutowire_DefaultsWithoutPropertySource(t *testing.T) {
	t.Parallel()

	c := refreshed(t, di.New())

	var d defaultsOnly
	require.NoError(t, c.Autowire(&d))
	assert.Equal(t, 8080, d.Port)
	assert.Equal(t, "localhost", d.Host)
}

type hidden struct {
	store *Store `inject:""`
}

func TestAutowire_UnexportedField(t *testing.T) {
	t.Parallel()

	c := di.New()
	require.NoError(t, c.Instance("store", &Store{}))
	refreshed(t, c)

	var h hidden
	err := c.Autowire(&h)
	require.ErrorIs(t, err, di.ErrUnexportedField)
	assert.Nil(t, h.store)
}

func TestAutowire_InvalidTargets(t *testing.T) {
	t.Parallel()

	c := refreshed(t, di.New())

	require.ErrorIs(t, c.Autowire(nil), di.ErrNilTarget)

	var nilPtr *Handler
	require.ErrorIs(t, c.Autowire(nilPtr), di.ErrNilTarget)

	var invalid di.InvalidTargetError
	require.ErrorAs(t, c.Autowire(Handler{}), &invalid)

	n := 3
	require.ErrorAs(t, c.Autowire(&n), &invalid)
}

func TestAutowire_BeforeRefresh(t *testing.T) {
	t.Parallel()

	c := di.New()
	var d defaultsOnly
	require.ErrorIs(t, c.Autowire(&d), di.ErrNotRefreshed)
}

type byName struct {
	Logger *Logger `inject:"otherLogger"`
}

func TestAutowire_ByName(t *testing.T) {
	t.Parallel()

	props := di.NewMapProperties().Set("service.name", "employees")
	c := refreshed(t, serviceContext(t, props))

	var b byName
	require.NoError(t, c.Autowire(&b))
	assert.Equal(t, "info", b.Logger.Level)
}

type ambiguous struct {
	Logger *Logger `inject:""`
}

func TestAutowire_AmbiguousByType(t *testing.T) {
	t.Parallel()

	props := di.NewMapProperties().Set("service.name", "employees")
	c := refreshed(t, serviceContext(t, props))

	var a ambiguous
	err := c.Autowire(&a)

	var unique di.NoUniqueBeanError
	require.ErrorAs(t, err, &unique)
	assert.Equal(t, []string{"logger", "otherLogger"}, unique.Candidates)
}
