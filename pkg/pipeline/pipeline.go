/*
Package pipeline defines the capability boundary around the NLP engine.

The gateway never talks to an engine directly. Handlers receive an Adapter and call one of its
three operations: sentence splitting, custom dictionary extension, and a single-pass run over a
set of tasks.

	res, err := adapter.RunTasks(ctx, []string{"北京欢迎你"}, pipeline.NewTaskSet(pipeline.TaskPOS))
	// res.CWS => [["北京" "欢迎" "你"]]
	// res.POS => [["ns" "v" "r"]]

Segmentation is a precondition for every other task, so a TaskSet always contains TaskCWS and
every successful run reports it.

Implementations must be safe for concurrent use. AddWords mutates dictionary state that persists
for the lifetime of the adapter and is expected to take an exclusive lock; SplitSentences and
RunTasks may run concurrently with each other but must each see one consistent dictionary
snapshot.
*/
package pipeline

import "context"

// Adapter wraps an NLP engine.
type Adapter interface {
	// SplitSentences splits every text into sentences, one list per input text.
	SplitSentences(ctx context.Context, texts []string) ([][]string, error)

	// AddWords extends the custom dictionary. maxWindow must be positive.
	AddWords(ctx context.Context, words []string, maxWindow int) error

	// RunTasks runs the requested tasks in one pass. Either every task in the
	// normalized set has a result or an error is returned.
	RunTasks(ctx context.Context, texts []string, tasks TaskSet) (*Results, error)
}

// Closer is implemented by adapters holding resources that must be released on shutdown.
type Closer interface {
	Close() error
}
