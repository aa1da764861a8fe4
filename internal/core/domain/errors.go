package domain

import "errors"

// Errors returned from use cases. Adapters wrap them with %w, the REST layer maps them
// to status codes with errors.Is.
var (
	// validation
	ErrValidation     = errors.New("validation failed")
	ErrInvalidCursor  = errors.New("invalid page cursor")
	ErrInvalidSortKey = errors.New("invalid sort key")

	// business rules
	ErrAddressNotFound  = errors.New("address could not be resolved, please enter a correct address")
	ErrNoImages         = errors.New("at least one image is required")
	ErrTooManyImages    = errors.New("maximum 6 images are allowed")
	ErrImageTooLarge    = errors.New("images must be less than 5 MB")
	ErrUnsupportedImage = errors.New("only jpg and png images are allowed")
	ErrOwnAction        = errors.New("owners cannot like or favourite their own landmark")
	ErrEmailInUse       = errors.New("email already in use")
	ErrCategoryEmpty    = errors.New("no landmarks in this category")

	// authorization
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("you cannot modify this landmark")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("invalid jwt token")

	// lookups
	ErrLandmarkNotFound = errors.New("landmark not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrImageNotFound    = errors.New("image not found")

	// availability
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrUploadFailed     = errors.New("images not uploaded")

	// listing session
	ErrLoadInProgress = errors.New("a page request is already in flight")
	ErrSessionClosed  = errors.New("listing session closed")
)
