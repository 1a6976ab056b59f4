package services

import (
	"context"
	"path/filepath"
	"time"

	"github.com/admithub/backend-go/internal/logger"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// reloadDebounce 编辑器保存常产生连续写事件，合并后只重载一次
const reloadDebounce = 500 * time.Millisecond

// CorpusWatcher 监听语料文件变更并触发热重载
type CorpusWatcher struct {
	watcher   *fsnotify.Watcher
	training  *TrainingService
	knowledge *KnowledgeService

	intentsPath string
	corpusPath  string
	done        chan struct{}
}

// NewCorpusWatcher 创建语料监听器，监听两份语料所在目录
func NewCorpusWatcher(training *TrainingService, knowledgeSvc *KnowledgeService, intentsPath, corpusPath string) (*CorpusWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dirs := map[string]bool{}
	for _, p := range []string{intentsPath, corpusPath} {
		dir := filepath.Dir(p)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	return &CorpusWatcher{
		watcher:     watcher,
		training:    training,
		knowledge:   knowledgeSvc,
		intentsPath: filepath.Clean(intentsPath),
		corpusPath:  filepath.Clean(corpusPath),
		done:        make(chan struct{}),
	}, nil
}

// Start 启动监听循环
func (w *CorpusWatcher) Start(ctx context.Context) {
	go w.loop(ctx)
	logger.Info("corpus watcher started",
		zap.String("intents", w.intentsPath),
		zap.String("knowledge_base", w.corpusPath))
}

// Stop 停止监听
func (w *CorpusWatcher) Stop() {
	close(w.done)
	w.watcher.Close()
}

func (w *CorpusWatcher) loop(ctx context.Context) {
	var (
		timer   *time.Timer
		pending = map[string]bool{}
	)
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Clean(event.Name)
			if name != w.intentsPath && name != w.corpusPath {
				continue
			}
			pending[name] = true
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			for name := range pending {
				w.reload(ctx, name)
			}
			pending = map[string]bool{}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("corpus watcher error", zap.Error(err))
		}
	}
}

func (w *CorpusWatcher) reload(ctx context.Context, name string) {
	switch name {
	case w.intentsPath:
		if err := w.training.Reload(); err != nil {
			logger.Error("failed to reload intent corpus", zap.Error(err))
			return
		}
		logger.Info("intent corpus reloaded", zap.String("path", name))
	case w.corpusPath:
		if err := w.knowledge.Reload(ctx); err != nil {
			logger.Error("failed to reload knowledge base", zap.Error(err))
			return
		}
		logger.Info("knowledge base reloaded", zap.String("path", name))
	}
}
