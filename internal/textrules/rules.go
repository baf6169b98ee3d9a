package textrules

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// 前后处理规则管线：pre 规则作用于冻结后的待译文本，post 规则作用于
// 解冻后的译文。规则类型 regex 做模式替换，starlark 执行脚本变换。

type RuleConfig struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`  // "regex" | "starlark"
	Stage       string `yaml:"stage"` // "pre" | "post"
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
	Script      string `yaml:"script"`
	ScriptFile  string `yaml:"script_file"`
}

type rulesFile struct {
	Rules []RuleConfig `yaml:"rules"`
}

type rule interface {
	name() string
	apply(text string) (string, error)
}

type regexRule struct {
	ruleName    string
	pattern     *regexp.Regexp
	replacement string
}

func (r *regexRule) name() string { return r.ruleName }

func (r *regexRule) apply(text string) (string, error) {
	return r.pattern.ReplaceAllString(text, r.replacement), nil
}

// Pipeline 编译好的规则序列，按文件中的声明顺序执行。
type Pipeline struct {
	pre    []rule
	post   []rule
	onFail func(ruleName string, err error)
}

// Empty 返回不做任何变换的管线。
func Empty() *Pipeline {
	return &Pipeline{}
}

// Load 从 YAML 文件编译规则管线。
func Load(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %v", err)
	}

	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %v", err)
	}

	p := &Pipeline{}
	for i, rc := range file.Rules {
		if rc.Name == "" {
			rc.Name = fmt.Sprintf("rule-%d", i)
		}

		var r rule
		switch rc.Type {
		case "regex":
			pattern, err := regexp.Compile(rc.Pattern)
			if err != nil {
				return nil, fmt.Errorf("rule '%s': invalid pattern: %v", rc.Name, err)
			}
			r = &regexRule{ruleName: rc.Name, pattern: pattern, replacement: rc.Replacement}
		case "starlark":
			script := rc.Script
			if rc.ScriptFile != "" {
				scriptBytes, readErr := os.ReadFile(rc.ScriptFile)
				if readErr != nil {
					return nil, fmt.Errorf("rule '%s': failed to read script file '%s': %v", rc.Name, rc.ScriptFile, readErr)
				}
				script = string(scriptBytes)
			}
			if script == "" {
				return nil, fmt.Errorf("rule '%s': missing script or script_file", rc.Name)
			}
			r, err = newStarlarkRule(rc.Name, script)
			if err != nil {
				return nil, fmt.Errorf("rule '%s': %v", rc.Name, err)
			}
		default:
			return nil, fmt.Errorf("rule '%s': unknown type '%s'", rc.Name, rc.Type)
		}

		switch rc.Stage {
		case "pre":
			p.pre = append(p.pre, r)
		case "post":
			p.post = append(p.post, r)
		default:
			return nil, fmt.Errorf("rule '%s': unknown stage '%s'", rc.Name, rc.Stage)
		}
	}

	return p, nil
}

// SetFailureHandler 注册规则执行失败时的回调（默认静默跳过该条规则）。
func (p *Pipeline) SetFailureHandler(fn func(ruleName string, err error)) {
	p.onFail = fn
}

// ProcessPre 对冻结后的待译文本执行 pre 规则。
func (p *Pipeline) ProcessPre(text string) string {
	return p.run(p.pre, text)
}

// ProcessPost 对解冻后的译文执行 post 规则。
func (p *Pipeline) ProcessPost(text string) string {
	return p.run(p.post, text)
}

// 单条规则失败跳过该规则，保留失败前的文本继续后续规则
func (p *Pipeline) run(rules []rule, text string) string {
	for _, r := range rules {
		next, err := r.apply(text)
		if err != nil {
			if p.onFail != nil {
				p.onFail(r.name(), err)
			}
			continue
		}
		text = next
	}
	return text
}
