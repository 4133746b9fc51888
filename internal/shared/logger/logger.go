package logger

import "go.uber.org/zap"

// New builds the process logger: human readable in development, JSON
// otherwise. It also becomes the zap global.
func New(development bool) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if development {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(l)
	return l, nil
}
