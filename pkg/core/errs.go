package core

import "errors"

var (
	ErrEmptyDataset  = errors.New("empty dataset")
	ErrMissingColumn = errors.New("missing column")
	ErrInvalidRow    = errors.New("invalid row")
	ErrUnknownMetric = errors.New("unknown metric")
	ErrInvalidMode   = errors.New("invalid display mode")
)
