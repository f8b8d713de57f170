package preview

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/temirov/svgtree/internal/types"
)

const errorPanicFormat = "preview panicked: %v"

// Classifier produces a payload for one file path.
type Classifier interface {
	Classify(filePath string) *types.Payload
}

// GenerateAll classifies every path on a worker pool bounded by GOMAXPROCS and
// joins the results by path. Paths without a preview are absent from the result.
// A panic in one task degrades to an error placeholder for that path only.
// Cancelling ctx stops scheduling further paths.
func GenerateAll(ctx context.Context, classifier Classifier, filePaths []string) map[string]*types.Payload {
	results := make(map[string]*types.Payload, len(filePaths))
	var resultsMutex sync.Mutex

	group := new(errgroup.Group)
	group.SetLimit(runtime.GOMAXPROCS(0))
	for _, filePath := range filePaths {
		if ctx.Err() != nil {
			break
		}
		group.Go(func() error {
			payload := classifySafely(classifier, filePath)
			if payload == nil {
				return nil
			}
			resultsMutex.Lock()
			results[filePath] = payload
			resultsMutex.Unlock()
			return nil
		})
	}
	_ = group.Wait()
	return results
}

func classifySafely(classifier Classifier, filePath string) (payload *types.Payload) {
	defer func() {
		if recovered := recover(); recovered != nil {
			payload = panicPlaceholder(classifier, filePath, fmt.Errorf(errorPanicFormat, recovered))
		}
	}()
	return classifier.Classify(filePath)
}

func panicPlaceholder(classifier Classifier, filePath string, cause error) *types.Payload {
	if generator, isGenerator := classifier.(*Generator); isGenerator {
		return generator.errorPlaceholder(filePath, cause)
	}
	return NewGenerator(DefaultOptions()).errorPlaceholder(filePath, cause)
}
