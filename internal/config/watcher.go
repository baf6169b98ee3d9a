package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher 监听配置文件变更并触发重载回调，外部编辑配置后无需重启。
// 编辑器通常以 rename+create 方式保存，所以监听目录而不是文件本身。
type Watcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
}

const debounceDelay = 500 * time.Millisecond

// WatchFile 开始监听 path；每次内容变更去抖后调用 onChange。
// onChange 在监听 goroutine 中执行，回调自行负责线程安全。
func WatchFile(path string, onChange func(Config), onError func(error)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{watcher: fw, done: make(chan struct{})}

	go func() {
		var timer *time.Timer
		for {
			select {
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounceDelay, func() {
					cfg, err := LoadConfig(abs)
					if err != nil {
						if onError != nil {
							onError(err)
						}
						return
					}
					onChange(cfg)
				})
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				if onError != nil {
					onError(err)
				}
			case <-w.done:
				return
			}
		}
	}()

	return w, nil
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
