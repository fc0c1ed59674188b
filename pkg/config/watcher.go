package config

import (
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// TuningWatcher 监视调参配置文件的变更并触发热重载
// 监视配置文件所在目录而非文件本身，以兼容编辑器的
// 原子保存（写临时文件后rename）行为
type TuningWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	reload  func(*TuningConfig)
	closeCh chan struct{}
	once    sync.Once
}

// WatchTuningConfig 开始监视指定的调参配置文件
// 文件每次被修改时重新加载，并在监视goroutine中回调 reload；
// 解析失败只记录日志，保留上一份合法配置
func WatchTuningConfig(path string, reload func(*TuningConfig)) (*TuningWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, err
	}

	tw := &TuningWatcher{
		watcher: w,
		path:    filepath.Clean(path),
		reload:  reload,
		closeCh: make(chan struct{}),
	}
	go tw.run()
	return tw, nil
}

// Close 停止监视并释放底层的文件系统监视器
func (tw *TuningWatcher) Close() error {
	var err error
	tw.once.Do(func() {
		close(tw.closeCh)
		err = tw.watcher.Close()
	})
	return err
}

func (tw *TuningWatcher) run() {
	var lastReload time.Time
	for {
		select {
		case event, ok := <-tw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != tw.path {
				continue
			}
			// 编辑器保存时常触发多个连续事件，去抖后只重载一次
			now := time.Now()
			if now.Sub(lastReload) < 100*time.Millisecond {
				continue
			}
			lastReload = now

			config, err := LoadTuningConfig(tw.path)
			if err != nil {
				log.Printf("[Config] Failed to reload tuning config: %v", err)
				continue
			}
			log.Printf("[Config] Reloaded tuning config from %s", tw.path)
			tw.reload(config)
		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[Config] Watcher error: %v", err)
		case <-tw.closeCh:
			return
		}
	}
}
