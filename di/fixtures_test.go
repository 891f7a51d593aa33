package di_test

import (
	"errors"
	"io"
)

// Store is a fake data store for the tests.
type Store struct {
	DSN    string
	closed int
}

func (s *Store) Close() error {
	s.closed++
	return nil
}

// Logger is a tiny logger for the tests.
type Logger struct {
	Level string
}

// Repository depends on a Store through its constructor.
type Repository struct {
	Store *Store
}

func NewRepository(s *Store) *Repository { return &Repository{Store: s} }

// Service is wired through its fields.
type Service struct {
	Repo   *Repository `inject:""`
	Logger *Logger     `inject:"logger"`
	Name   string      `value:"service.name"`
	Limit  int         `value:"service.limit" default:"10"`
	Plain  string
}

func NewService() *Service { return &Service{Plain: "untouched"} }

// Greeter has two implementations.
type Greeter interface {
	Greet() string
}

type english struct{}

func (english) Greet() string { return "hello" }

type french struct{}

func (french) Greet() string { return "bonjour" }

// failingCloser always fails to close.
type failingCloser struct{}

func (failingCloser) Close() error { return errors.New("boom") }

var _ io.Closer = failingCloser{}

// closeLog records the order in which closers ran.
type closeLog struct{ names []string }

type namedCloser struct {
	name string
	log  *closeLog
}

func (n *namedCloser) Close() error {
	n.log.names = append(n.log.names, n.name)
	return nil
}
