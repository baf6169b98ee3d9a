package textrules

import (
	"fmt"

	"go.starlark.net/starlark"
)

// 脚本规则：用户脚本需定义 process(text) 并返回变换后的字符串。
// 步数上限防止脚本死循环拖垮工作线程。
const maxExecutionSteps = 1 << 20

type starlarkRule struct {
	ruleName string
	fn       starlark.Callable
}

func newStarlarkRule(name, script string) (*starlarkRule, error) {
	thread := &starlark.Thread{Name: "textrule:" + name}
	globals, err := starlark.ExecFile(thread, name+".star", script, nil)
	if err != nil {
		return nil, fmt.Errorf("script error: %v", err)
	}
	// 冻结模块全局量，允许多个工作线程并发调用
	globals.Freeze()

	fn, ok := globals["process"]
	if !ok {
		return nil, fmt.Errorf("script must define a process(text) function")
	}
	callable, ok := fn.(starlark.Callable)
	if !ok {
		return nil, fmt.Errorf("'process' is not callable")
	}

	return &starlarkRule{ruleName: name, fn: callable}, nil
}

func (r *starlarkRule) name() string { return r.ruleName }

func (r *starlarkRule) apply(text string) (string, error) {
	// 每次调用用独立 thread，starlark.Thread 不支持并发复用
	thread := &starlark.Thread{Name: "textrule:" + r.ruleName}
	thread.SetMaxExecutionSteps(maxExecutionSteps)

	result, err := starlark.Call(thread, r.fn, starlark.Tuple{starlark.String(text)}, nil)
	if err != nil {
		return "", fmt.Errorf("process() failed: %v", err)
	}

	s, ok := starlark.AsString(result)
	if !ok {
		return "", fmt.Errorf("process() must return a string, got %s", result.Type())
	}
	return s, nil
}
