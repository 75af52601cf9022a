package store

import (
	"errors"

	"github.com/dmitrijs2005/keepers/internal/models"
)

var (
	ErrNotInitialized     = errors.New("store is not initialized")
	ErrInvalidName        = errors.New("collection name must contain a letter or digit")
	ErrInvalidItem        = errors.New("item id must not be empty")
	ErrCollectionExists   = errors.New("collection already exists")
	ErrSystemCollection   = errors.New("system collections cannot be changed this way")
	ErrCollectionNotFound = errors.New("collection not found")
	ErrItemNotFound       = errors.New("item not found")
	ErrItemExists         = errors.New("item already in collection")
	ErrLastActive         = errors.New("at least one collection must stay active")

	// ErrInvalidDocument is returned by Import for data that is not a
	// keepers export.
	ErrInvalidDocument = models.ErrInvalidDocument
)
