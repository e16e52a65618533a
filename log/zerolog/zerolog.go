package zerolog

import (
	"github.com/harborvale/offcache"
	"github.com/rs/zerolog"
)

type Logger struct{ L zerolog.Logger }

var _ offcache.Logger = Logger{}

func (z Logger) Debug(msg string, f offcache.Fields) { z.L.Debug().Fields(fm(f)).Msg(msg) }
func (z Logger) Info(msg string, f offcache.Fields)  { z.L.Info().Fields(fm(f)).Msg(msg) }
func (z Logger) Warn(msg string, f offcache.Fields)  { z.L.Warn().Fields(fm(f)).Msg(msg) }
func (z Logger) Error(msg string, f offcache.Fields) { z.L.Error().Fields(fm(f)).Msg(msg) }

func fm(f offcache.Fields) map[string]any {
	if len(f) == 0 {
		return nil
	}
	return map[string]any(f)
}
