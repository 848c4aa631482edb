package storage

import (
	"errors"

	"github.com/julianstephens/autoplan/internal/models"
)

var (
	// ErrNotFound is returned when a task or plan does not exist or was deleted.
	ErrNotFound = errors.New("not found")
	// ErrNotInitialized is returned by Load before init has been run.
	ErrNotInitialized = errors.New("storage not initialized, run 'autoplan init' first")
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Tasks
	AddTask(models.Task) error
	GetTask(id string) (models.Task, error)
	GetAllTasks() ([]models.Task, error)
	UpdateTask(models.Task) error
	CompleteTask(id string) error
	DeleteTask(id string) error

	// Plans
	SavePlan(models.DayPlan) error
	GetPlan(date string) (models.DayPlan, error)

	// Utils
	GetConfigPath() string
}
