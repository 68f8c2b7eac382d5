package tests

import (
	"context"
	"runtime"
	"time"

	"github.com/stretchr/testify/suite"
)

// MemoryLeakTestSuite is a test suite that checks at the end of each test
// that no goroutine of the test body is still running.
type MemoryLeakTestSuite struct {
	suite.Suite
	TestCtx              context.Context
	testCtxCancel        context.CancelFunc
	goroutineCountBefore int
}

func (s *MemoryLeakTestSuite) SetupTest() {
	s.goroutineCountBefore = runtime.NumGoroutine()
	s.TestCtx, s.testCtxCancel = context.WithCancel(context.Background())
}

func (s *MemoryLeakTestSuite) TearDownTest() {
	s.testCtxCancel()

	const maxRetries = 100
	const retryInterval = 10 * time.Millisecond
	for i := 0; i < maxRetries; i++ {
		if runtime.NumGoroutine() <= s.goroutineCountBefore {
			break
		}
		time.Sleep(retryInterval)
	}
	s.LessOrEqual(runtime.NumGoroutine(), s.goroutineCountBefore, "no goroutine should be leaked")
}
