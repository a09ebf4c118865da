package browser

import (
	"context"
	"errors"
)

// Node — непрозрачный дескриптор DOM-элемента. Конкретный тип знает только драйвер,
// который его вернул.
type Node any

// ErrDriverFault помечает сбой самой сессии браузера (разрыв соединения, закрытая вкладка).
// Только такие ошибки прерывают весь прогон.
var ErrDriverFault = errors.New("browser driver fault")

// Driver — узкий интерфейс к единственной вкладке браузера.
// Запросы к DOM возвращают пустой результат, а не ошибку, если ничего не найдено.
// scope == nil означает весь документ.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	FindAll(ctx context.Context, selector string, scope Node) ([]Node, error)
	FindFirst(ctx context.Context, selector string, scope Node) (Node, bool, error)
	ScrollIntoView(ctx context.Context, n Node) error
	Activate(ctx context.Context, n Node) error
	Attribute(ctx context.Context, n Node, name string) (string, bool, error)
	Text(ctx context.Context, n Node) (string, error)
	IsVisible(ctx context.Context, n Node) (bool, error)
	IsEnabled(ctx context.Context, n Node) (bool, error)
}

// Typer — ввод текста в поля формы (нужен только для авторизации).
type Typer interface {
	InputText(ctx context.Context, n Node, text string) error
	PressEnter(ctx context.Context, n Node) error
}

// Snapshotter отдаёт HTML текущей страницы.
type Snapshotter interface {
	HTML(ctx context.Context) (string, error)
}

// IsFault сообщает, должна ли ошибка остановить весь прогон.
func IsFault(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrDriverFault) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
