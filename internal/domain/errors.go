package domain

import "errors"

var (
	// ErrEmptyInput is returned when there are no ingredient lines, or none of
	// them yields any usable mass
	ErrEmptyInput = errors.New("no usable ingredient data")

	// ErrRatioUnavailable is returned when fewer than two ratio categories qualify
	ErrRatioUnavailable = errors.New("ratio unavailable")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRecipeNotFound is returned when a saved recipe id does not exist
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrNoRecipeData is returned when a page contains no recognisable recipe
	ErrNoRecipeData = errors.New("no recipe data found on page")

	// ErrFetchFailure is returned when a recipe page could not be retrieved
	ErrFetchFailure = errors.New("recipe fetch failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
