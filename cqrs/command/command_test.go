package command_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/caseflow/cqrs/command"
)

type echo struct{ Value string }

func recordingWrap(name string, trail *[]string) command.WrapFunc[echo, string] {
	return func(next command.Command[echo, string]) command.Command[echo, string] {
		return command.Func[echo, string](func(ctx context.Context, in echo) (string, error) {
			*trail = append(*trail, name+":before")
			out, err := next.Execute(ctx, in)
			*trail = append(*trail, name+":after")
			return out, err
		})
	}
}

func TestApply(t *testing.T) {
	var trail []string
	handler := command.Func[echo, string](func(_ context.Context, in echo) (string, error) {
		trail = append(trail, "handler")
		return in.Value, nil
	})

	wrapped := command.Apply[echo, string](handler,
		recordingWrap("outer", &trail),
		nil,
		recordingWrap("inner", &trail),
	)

	out, err := wrapped.Execute(t.Context(), echo{Value: "x"})

	require.NoError(t, err)
	assert.Equal(t, "x", out)
	assert.Equal(t, []string{
		"outer:before",
		"inner:before",
		"handler",
		"inner:after",
		"outer:after",
	}, trail)
}

func TestApplyWithoutWraps(t *testing.T) {
	handler := command.Func[echo, string](func(_ context.Context, in echo) (string, error) {
		return in.Value + "!", nil
	})

	out, err := command.Apply[echo, string](handler).Execute(t.Context(), echo{Value: "hi"})

	require.NoError(t, err)
	assert.Equal(t, "hi!", out)
}
