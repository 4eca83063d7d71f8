package editor

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-variables/pkg/board"
	"github.com/mattsolo1/grove-variables/pkg/card"
	"github.com/mattsolo1/grove-variables/pkg/floor"
	"github.com/mattsolo1/grove-variables/pkg/models"
	"github.com/mattsolo1/grove-variables/pkg/store"
)

type renderedMsg struct {
	result floor.Result
}

type savedMsg struct {
	view *floor.View
	node card.NodeID
	name string
	err  error
}

type deletedMsg struct {
	name string
	err  error
}

type storeChangedMsg struct{}

func activateCmd(ctx context.Context, b *board.Board, scope models.Scope) tea.Cmd {
	return func() tea.Msg {
		return renderedMsg{result: b.ActivateScope(ctx, scope)}
	}
}

func refreshCmd(ctx context.Context, b *board.Board) tea.Cmd {
	return func() tea.Msg {
		return renderedMsg{result: b.Refresh(ctx)}
	}
}

func saveCmd(ctx context.Context, s store.Store, view *floor.View, node card.NodeID, entry store.Entry) tea.Cmd {
	return func() tea.Msg {
		err := s.Put(ctx, entry)
		return savedMsg{view: view, node: node, name: entry.Name, err: err}
	}
}

func deleteCmd(ctx context.Context, s store.Store, entry store.Entry) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{name: entry.Name, err: s.Delete(ctx, entry)}
	}
}

func watchCmd(ctx context.Context, fs *store.FileStore, changes chan<- struct{}, logger *logrus.Entry) tea.Cmd {
	return func() tea.Msg {
		go func() {
			err := fs.Watch(ctx, func() {
				select {
				case changes <- struct{}{}:
				default:
				}
			})
			if err != nil {
				logger.WithError(err).Warn("stopped watching variables file")
			}
		}()
		return nil
	}
}

func waitForChangeCmd(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-changes
		return storeChangedMsg{}
	}
}
