package httpclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"devconsole/internal/actions"
	"devconsole/internal/model"
)

// Call is everything needed to run one action.
type Call struct {
	Action actions.Action
	Creds  model.Credentials
	Form   model.FormState
	Inputs model.Inputs
}

// Dispatch builds the descriptor and executes it. The returned error is a
// *actions.ValidationError, ErrNoToken, or a transport failure; in every
// error case nothing is left to render but the error itself.
func Dispatch(ctx context.Context, c *Client, log zerolog.Logger, call Call) (model.Descriptor, Result, error) {
	l := log.With().
		Str("call_id", uuid.NewString()).
		Str("action", string(call.Action.ID)).
		Logger()

	d, err := call.Action.Build(call.Creds.Endpoint, call.Form, call.Inputs)
	if err != nil {
		l.Warn().Err(err).Msg("request not built")
		return model.Descriptor{}, Result{}, err
	}
	if !call.Creds.HasToken {
		l.Warn().Msg("no token saved")
		return d, Result{}, ErrNoToken
	}

	l = l.With().Str("method", d.Method).Str("url", d.URL).Logger()
	l.Debug().Msg("sending")

	res, err := c.Execute(ctx, call.Creds.Token, d)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			l.Info().Msg("call cancelled")
			return d, Result{}, fmt.Errorf("cancelled: %w", err)
		}
		l.Error().Err(err).Msg("API call failed")
		return d, Result{}, err
	}
	l.Info().
		Int("status", res.StatusCode).
		Dur("elapsed", res.Elapsed).
		Int("bytes", len(res.Body)).
		Msg("response")
	return d, res, nil
}
