// Package saga 顺序执行一组步骤,任一步失败时按逆序执行已完成步骤的补偿
package saga

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Step 一个步骤:正向操作与补偿操作(可为nil)
type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Result 一次执行的结果
type Result struct {
	Completed   []string // 成功完成的步骤
	FailedStep  string   // 失败的步骤,成功时为空
	Compensated []string // 成功补偿的步骤(按补偿顺序)
	Err         error    // 失败原因
	CompErr     error    // 补偿过程中的错误(多个时合并)
}

// Saga 步骤编排器,定义后可重复执行
type Saga struct {
	name    string
	steps   []Step
	timeout time.Duration
	log     *zap.Logger
}

// Option 可选参数
type Option func(*Saga)

// WithTimeout 整体超时;超时后不再执行后续步骤并开始补偿
func WithTimeout(d time.Duration) Option {
	return func(s *Saga) { s.timeout = d }
}

// WithLogger 记录补偿失败
func WithLogger(l *zap.Logger) Option {
	return func(s *Saga) { s.log = l }
}

// New 创建Saga
func New(name string, opts ...Option) *Saga {
	s := &Saga{name: name, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddStep 追加步骤
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) *Saga {
	s.steps = append(s.steps, Step{Name: name, Action: action, Compensate: compensate})
	return s
}

// Execute 执行全部步骤
// 补偿使用脱离取消的context,保证超时或调用方取消后补偿仍能完成
func (s *Saga) Execute(ctx context.Context) Result {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var res Result
	executed := make([]Step, 0, len(s.steps))
	for _, step := range s.steps {
		if err := ctx.Err(); err != nil {
			res.FailedStep = step.Name
			res.Err = fmt.Errorf("saga %s超时或取消: %w", s.name, err)
			break
		}
		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				res.FailedStep = step.Name
				res.Err = fmt.Errorf("步骤[%s]执行失败: %w", step.Name, err)
				break
			}
		}
		executed = append(executed, step)
		res.Completed = append(res.Completed, step.Name)
	}

	if res.Err == nil {
		return res
	}

	compCtx := context.WithoutCancel(ctx)
	var compErrs []error
	for i := len(executed) - 1; i >= 0; i-- {
		step := executed[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(compCtx); err != nil {
			s.log.Error("saga compensation failed",
				zap.String("saga", s.name),
				zap.String("step", step.Name),
				zap.Error(err),
			)
			compErrs = append(compErrs, fmt.Errorf("补偿[%s]失败: %w", step.Name, err))
			continue
		}
		res.Compensated = append(res.Compensated, step.Name)
	}
	res.CompErr = errors.Join(compErrs...)
	return res
}
