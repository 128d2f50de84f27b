package app

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/chop/internal/core/history"
	"github.com/sadopc/chop/internal/core/linkcheck"
	"github.com/sadopc/chop/internal/errkind"
	"github.com/sadopc/chop/internal/shortener"
	"github.com/sadopc/chop/internal/ui/msgs"
)

func (a App) startShorten(msg msgs.ShortenRequestMsg) (tea.Model, tea.Cmd) {
	if a.home.Busy() {
		return a, nil
	}

	a.home.SetError("")
	longURL, err := linkcheck.Prepare(msg.Input)
	if err != nil {
		if errkind.Is(err, errkind.InvalidURL) {
			reason := linkcheck.Check(linkcheck.Normalize(msg.Input))
			a.home.SetError("Invalid URL: " + reason.String())
		}
		return a, a.toast.Show(toastFor(err))
	}
	if err := linkcheck.CheckAlias(msg.Alias); err != nil {
		return a, a.toast.Show(toastFor(err))
	}
	if a.deps.Shortener == nil {
		return a, a.toast.Show(toastFor(errkind.New(errkind.NotConfigured, "shorten url", nil)))
	}

	ticket := a.seq.Begin()
	a.home.StartShortening()
	status := a.statusBar.SetMessage("Shortening...", 0)
	a.log.Debug().Str("url", longURL).Str("alias", msg.Alias).Msg("shorten started")

	client := a.deps.Shortener
	timeout := a.timeout
	req := shortener.Request{URL: longURL, CustomAlias: msg.Alias}
	run := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := client.Shorten(ctx, req)
		return msgs.ShortenDoneMsg{Ticket: ticket, LongURL: longURL, Result: res, Err: err}
	}
	return a, tea.Batch(run, status)
}

func (a App) handleShortenDone(msg msgs.ShortenDoneMsg) (tea.Model, tea.Cmd) {
	if !a.seq.Current(msg.Ticket) {
		a.log.Debug().Str("url", msg.LongURL).Msg("dropping stale shorten response")
		return a, nil
	}
	a.seq.Cancel()

	if msg.Err != nil || msg.Result == nil {
		a.home.FinishShortening("", msg.LongURL)
		a.statusBar.SetMessage("", 0)
		var serr *shortener.StatusError
		if errors.As(msg.Err, &serr) {
			a.statusBar.SetStatus(serr.StatusCode, 0, int64(len(serr.Body)))
		}
		a.log.Warn().Err(msg.Err).Str("url", msg.LongURL).Msg("shorten failed")
		return a, a.toast.Show(toastFor(msg.Err))
	}

	res := msg.Result
	a.home.FinishShortening(res.ShortURL, msg.LongURL)
	a.statusBar.SetStatus(res.StatusCode, res.Duration, res.Size)
	a.statusBar.SetMessage("", 0)

	if a.deps.History == nil {
		return a, nil
	}
	list, err := a.deps.History.Record(history.Entry{LongURL: msg.LongURL, ShortURL: res.ShortURL})
	a.home.SetHistory(list)
	if err != nil {
		a.log.Warn().Err(err).Msg("history not saved")
		return a, a.toast.Show(msgs.ToastMsg{
			Title: "History not saved",
			Text:  errkind.Message(errkind.Persistence),
			Level: msgs.ToastWarning,
		})
	}
	return a, nil
}

func (a App) copy(msg msgs.CopyMsg) (tea.Model, tea.Cmd) {
	if msg.Text == "" {
		return a, nil
	}
	write := a.deps.Clipboard
	if write == nil {
		return a, a.toast.Show(msgs.ToastMsg{Title: "Copy failed", Text: "Please try again.", Level: msgs.ToastError})
	}
	if err := write(msg.Text); err != nil {
		a.log.Warn().Err(err).Msg("clipboard write failed")
		return a, a.toast.Show(msgs.ToastMsg{Title: "Copy failed", Text: "Please try again.", Level: msgs.ToastError})
	}
	a.home.MarkCopied(msg.Text)
	return a, a.toast.Show(msgs.ToastMsg{Title: "Copied!", Text: "Short URL copied to clipboard.", Level: msgs.ToastSuccess})
}

func (a App) openURL(url string) tea.Cmd {
	open := a.deps.OpenURL
	if open == nil || url == "" {
		return nil
	}
	return func() tea.Msg {
		if err := open(url); err != nil {
			return msgs.ToastMsg{Title: "Could not open browser", Text: err.Error(), Level: msgs.ToastError}
		}
		return msgs.StatusMsg{Text: "Opened " + url, Duration: 2 * time.Second}
	}
}

func (a App) clearHistory() (tea.Model, tea.Cmd) {
	if a.deps.History == nil {
		return a, nil
	}
	list, err := a.deps.History.Clear()
	a.home.SetHistory(list)
	if err != nil {
		a.log.Warn().Err(err).Msg("history clear not saved")
		return a, a.toast.Show(msgs.ToastMsg{
			Title: "History not saved",
			Text:  errkind.Message(errkind.Persistence),
			Level: msgs.ToastWarning,
		})
	}
	return a, a.toast.Show(msgs.ToastMsg{Title: "History cleared", Level: msgs.ToastInfo, Duration: 2 * time.Second})
}

// toastFor maps an error to the notification shown for it.
func toastFor(err error) msgs.ToastMsg {
	kind := errkind.Of(err)
	switch kind {
	case errkind.EmptyInput:
		return msgs.ToastMsg{Title: errkind.Message(kind), Level: msgs.ToastWarning}
	case errkind.InvalidURL:
		return msgs.ToastMsg{Title: "Invalid URL", Text: "Please enter a valid URL with a proper domain.", Level: msgs.ToastWarning}
	case errkind.InvalidAlias:
		return msgs.ToastMsg{Title: "Invalid alias", Text: errkind.Message(kind), Level: msgs.ToastWarning}
	case errkind.Cancelled:
		return msgs.ToastMsg{Title: errkind.Message(kind), Level: msgs.ToastInfo}
	case errkind.Unknown:
		return msgs.ToastMsg{Title: "Error", Text: errkind.Message(errkind.Service), Level: msgs.ToastError}
	default:
		return msgs.ToastMsg{Title: "Error", Text: errkind.Message(kind), Level: msgs.ToastError}
	}
}
