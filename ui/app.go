// Package ui provides the Fyne-based GUI for the MatheVilla client.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/mathevilla/mathevilla/pkg/api"
	"github.com/mathevilla/mathevilla/pkg/model"
	"github.com/mathevilla/mathevilla/pkg/session"
	"github.com/mathevilla/mathevilla/pkg/sound"
	"github.com/mathevilla/mathevilla/pkg/store"
	"github.com/mathevilla/mathevilla/pkg/version"
)

const requestTimeout = 15 * time.Second

// App is the main GUI application.
type App struct {
	fyneApp fyne.App
	window  fyne.Window

	session *session.Manager
	api     *api.Client
	sound   *sound.Engine
	cache   store.CacheStore

	route     Route
	lastState session.State
	content   *fyne.Container

	statusLabel *widget.Label
	soundBtn    *widget.Button
	musicBtn    *widget.Button
	logoutBtn   *widget.Button
}

// NewApp creates the MatheVilla GUI application.
func NewApp(sess *session.Manager, apiClient *api.Client, engine *sound.Engine, cache store.CacheStore) *App {
	a := &App{
		fyneApp: app.NewWithID("de.mathevilla.client"),
		session: sess,
		api:     apiClient,
		sound:   engine,
		cache:   cache,
		route:   RouteDashboard,
		// Sentinel so the first real state always triggers navigation.
		lastState: session.State(-1),
	}
	a.window = a.fyneApp.NewWindow("MatheVilla")
	a.window.Resize(fyne.NewSize(860, 620))
	a.window.SetMaster()
	return a
}

// Run starts the GUI application (blocks).
func (a *App) Run() {
	a.buildUI()
	a.bindEvents()
	a.sound.Start()

	go a.session.Hydrate(context.Background())

	a.window.SetCloseIntercept(func() {
		a.sound.Close()
		a.fyneApp.Quit()
	})
	a.window.ShowAndRun()
}

func (a *App) buildUI() {
	a.soundBtn = widget.NewButtonWithIcon("", theme.VolumeUpIcon(), func() {
		a.sound.ToggleSound()
		a.updateSoundButtons()
	})
	a.musicBtn = widget.NewButtonWithIcon("", theme.MediaMusicIcon(), func() {
		a.sound.ToggleMusic()
		a.updateSoundButtons()
	})
	a.logoutBtn = widget.NewButtonWithIcon("Abmelden", theme.LogoutIcon(), func() {
		a.sound.Play(sound.EventClick)
		a.session.Logout()
	})
	a.logoutBtn.Hide()
	a.updateSoundButtons()

	homeBtn := widget.NewButtonWithIcon("", theme.HomeIcon(), func() {
		a.sound.Play(sound.EventClick)
		a.navigate(HomeRoute(a.session.IsAdmin()))
	})

	toolbar := container.NewHBox(
		homeBtn,
		layout.NewSpacer(),
		a.soundBtn,
		a.musicBtn,
		a.logoutBtn,
	)

	a.statusLabel = widget.NewLabel("Lade...")
	a.statusLabel.TextStyle = fyne.TextStyle{Italic: true}

	versionLabel := widget.NewLabel(version.String())
	versionLabel.TextStyle = fyne.TextStyle{Italic: true}
	versionLabel.Importance = widget.LowImportance

	statusBar := container.NewHBox(a.statusLabel, layout.NewSpacer(), versionLabel)

	a.content = container.NewStack(a.loadingView())

	a.window.SetContent(container.NewBorder(toolbar, statusBar, nil, nil, a.content))
}

func (a *App) updateSoundButtons() {
	if a.sound.SoundEnabled() {
		a.soundBtn.SetIcon(theme.VolumeUpIcon())
	} else {
		a.soundBtn.SetIcon(theme.VolumeMuteIcon())
	}
	if a.sound.MusicEnabled() {
		a.musicBtn.Importance = widget.HighImportance
	} else {
		a.musicBtn.Importance = widget.MediumImportance
	}
	a.musicBtn.Refresh()
}

func (a *App) bindEvents() {
	a.session.OnStateChange = func(state session.State) {
		fyne.Do(func() {
			switch state {
			case session.StateHydrating:
				a.statusLabel.SetText("Sitzung wird geprüft...")
				a.logoutBtn.Hide()
			case session.StateAnonymous:
				a.statusLabel.SetText("Nicht angemeldet")
				a.logoutBtn.Hide()
			case session.StateAuthenticated:
				if u := a.session.User(); u != nil {
					a.statusLabel.SetText(fmt.Sprintf("Angemeldet als %s (Level %d, %d XP)", u.Name, u.Level, u.XP))
				}
				a.logoutBtn.Show()
			}
			// Refreshes re-notify the same state; swapping the view then
			// would reset a practice run mid-task.
			if state != a.lastState {
				a.lastState = state
				a.navigate(a.route)
			}
		})
	}
}

// navigate resolves the requested route against the session state and
// swaps the content pane. Must run on the UI thread.
func (a *App) navigate(route Route) {
	switch Resolve(a.session.State(), a.session.IsAdmin(), route) {
	case ShowLoading:
		a.setView(a.loadingView())
	case RedirectLogin:
		a.route = RouteLogin
		a.setView(a.loginView())
	case RedirectDashboard:
		home := HomeRoute(a.session.IsAdmin())
		a.route = home
		a.setView(a.viewFor(home))
	case Allow:
		a.route = route
		a.setView(a.viewFor(route))
	}
}

func (a *App) viewFor(route Route) fyne.CanvasObject {
	switch route {
	case RouteLogin:
		return a.loginView()
	case RouteRegister:
		return a.registerView()
	case RoutePractice:
		return a.practiceView()
	case RouteProgress:
		return a.progressView()
	case RouteAdmin:
		return a.adminView()
	default:
		return a.dashboardView()
	}
}

func (a *App) setView(view fyne.CanvasObject) {
	a.content.Objects = []fyne.CanvasObject{view}
	a.content.Refresh()
}

func (a *App) loadingView() fyne.CanvasObject {
	bar := widget.NewProgressBarInfinite()
	return container.NewCenter(container.NewVBox(
		widget.NewLabelWithStyle("MatheVilla", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		bar,
	))
}

// showError surfaces an API failure with the backend's message and the
// error cue. Must run on the UI thread.
func (a *App) showError(err error) {
	a.sound.Play(sound.EventError)
	dialog.ShowError(err, a.window)
}

func (a *App) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// ----- Login / Register -----

func (a *App) loginView() fyne.CanvasObject {
	emailEntry := widget.NewEntry()
	emailEntry.SetPlaceHolder("E-Mail")
	passwordEntry := widget.NewPasswordEntry()
	passwordEntry.SetPlaceHolder("Passwort")

	doLogin := func() {
		a.sound.Play(sound.EventClick)
		email := strings.TrimSpace(emailEntry.Text)
		password := passwordEntry.Text
		if email == "" || password == "" {
			a.showError(fmt.Errorf("E-Mail und Passwort sind erforderlich"))
			return
		}
		go func() {
			ctx, cancel := a.ctx()
			defer cancel()
			if _, err := a.session.Login(ctx, email, password); err != nil {
				slog.Debug("login rejected", "err", err)
				fyne.Do(func() { a.showError(err) })
				return
			}
			a.sound.Play(sound.EventSuccess)
		}()
	}
	passwordEntry.OnSubmitted = func(string) { doLogin() }

	loginBtn := widget.NewButtonWithIcon("Anmelden", theme.LoginIcon(), doLogin)
	loginBtn.Importance = widget.HighImportance

	registerLink := widget.NewButton("Noch kein Konto? Registrieren", func() {
		a.sound.Play(sound.EventClick)
		a.navigate(RouteRegister)
	})
	registerLink.Importance = widget.LowImportance

	form := container.NewVBox(
		widget.NewLabelWithStyle("Willkommen bei MatheVilla", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		emailEntry,
		passwordEntry,
		loginBtn,
		registerLink,
	)
	return container.NewCenter(container.New(layout.NewGridWrapLayout(fyne.NewSize(360, 240)), form))
}

func gradeOptions() []string {
	options := make([]string, 0, model.MaxGrade-model.MinGrade+1)
	for g := model.MinGrade; g <= model.MaxGrade; g++ {
		options = append(options, strconv.Itoa(g))
	}
	return options
}

func (a *App) registerView() fyne.CanvasObject {
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Name")
	emailEntry := widget.NewEntry()
	emailEntry.SetPlaceHolder("E-Mail")
	passwordEntry := widget.NewPasswordEntry()
	passwordEntry.SetPlaceHolder("Passwort (mind. 6 Zeichen)")

	gradeSelect := widget.NewSelect(gradeOptions(), nil)
	gradeSelect.PlaceHolder = "Klassenstufe"
	gradeRow := container.NewHBox(widget.NewLabel("Klasse:"), gradeSelect)

	roleSelect := widget.NewSelect([]string{"Schüler", "Admin"}, func(selected string) {
		// Only students carry a grade.
		if selected == "Schüler" {
			gradeRow.Show()
		} else {
			gradeRow.Hide()
		}
	})
	roleSelect.SetSelected("Schüler")

	registerBtn := widget.NewButtonWithIcon("Konto erstellen", theme.ContentAddIcon(), func() {
		a.sound.Play(sound.EventClick)
		reg := model.Registration{
			Email:    strings.TrimSpace(emailEntry.Text),
			Password: passwordEntry.Text,
			Name:     strings.TrimSpace(nameEntry.Text),
			Role:     model.RoleStudent,
		}
		if roleSelect.Selected == "Admin" {
			reg.Role = model.RoleAdmin
		}
		if gradeSelect.Selected != "" {
			if g, err := strconv.Atoi(gradeSelect.Selected); err == nil {
				reg.Grade = &g
			}
		}
		go func() {
			ctx, cancel := a.ctx()
			defer cancel()
			if _, err := a.session.Register(ctx, reg); err != nil {
				fyne.Do(func() { a.showError(err) })
				return
			}
			a.sound.Play(sound.EventSuccess)
		}()
	})
	registerBtn.Importance = widget.HighImportance

	backLink := widget.NewButton("Zurück zur Anmeldung", func() {
		a.sound.Play(sound.EventClick)
		a.navigate(RouteLogin)
	})
	backLink.Importance = widget.LowImportance

	form := container.NewVBox(
		widget.NewLabelWithStyle("Registrieren", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		nameEntry,
		emailEntry,
		passwordEntry,
		container.NewHBox(widget.NewLabel("Rolle:"), roleSelect),
		gradeRow,
		registerBtn,
		backLink,
	)
	return container.NewCenter(container.New(layout.NewGridWrapLayout(fyne.NewSize(380, 340)), form))
}

// ----- Dashboard -----

func (a *App) dashboardView() fyne.CanvasObject {
	user := a.session.User()
	if user == nil {
		return a.loadingView()
	}

	greeting := widget.NewLabelWithStyle(fmt.Sprintf("Hallo, %s!", user.Name), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	statsLabel := widget.NewLabel(fmt.Sprintf("Level %d · %d XP", user.Level, user.XP))
	badgesLabel := widget.NewLabel(badgeLine(user.Badges))
	streakLabel := widget.NewLabel("")

	xpBar := widget.NewProgressBar()
	xpBar.Min = 0
	xpBar.Max = 1

	go func() {
		ctx, cancel := a.ctx()
		defer cancel()
		stats, err := a.api.UserStats(ctx)
		if err != nil {
			slog.Debug("stats fetch failed", "err", err)
			return
		}
		fyne.Do(func() {
			statsLabel.SetText(fmt.Sprintf("Level %d · %d XP · noch %d XP bis zum nächsten Level", stats.Level, stats.XP, stats.XPToNext))
			if stats.XPToNext > 0 {
				xpBar.SetValue(float64(stats.XP%100) / 100.0)
			} else {
				xpBar.SetValue(1)
			}
			streakLabel.SetText(fmt.Sprintf("Serie: %d Tage · heute gelöst: %d", stats.Streak, stats.SolvedToday))
			badgesLabel.SetText(badgeLine(stats.Badges))
		})
	}()

	practiceBtn := widget.NewButtonWithIcon("Üben", theme.MediaPlayIcon(), func() {
		a.sound.Play(sound.EventClick)
		a.navigate(RoutePractice)
	})
	practiceBtn.Importance = widget.HighImportance
	dailyBtn := widget.NewButtonWithIcon("Tages-Challenge", theme.ConfirmIcon(), func() {
		a.sound.Play(sound.EventClick)
		a.openChallenge("daily")
	})
	weeklyBtn := widget.NewButtonWithIcon("Wochen-Challenge", theme.HistoryIcon(), func() {
		a.sound.Play(sound.EventClick)
		a.openChallenge("weekly")
	})
	progressBtn := widget.NewButtonWithIcon("Fortschritt", theme.ListIcon(), func() {
		a.sound.Play(sound.EventClick)
		a.navigate(RouteProgress)
	})

	buttons := container.NewHBox(practiceBtn, dailyBtn, weeklyBtn, progressBtn)

	var gradeRow fyne.CanvasObject = layout.NewSpacer()
	if user.IsStudent() {
		gradeSelect := widget.NewSelect(gradeOptions(), nil)
		if user.Grade != nil {
			gradeSelect.SetSelected(strconv.Itoa(*user.Grade))
		}
		gradeSelect.OnChanged = func(selected string) {
			grade, err := strconv.Atoi(selected)
			if err != nil {
				return
			}
			a.sound.Play(sound.EventClick)
			go func() {
				ctx, cancel := a.ctx()
				defer cancel()
				if err := a.api.UpdateGrade(ctx, grade); err != nil {
					fyne.Do(func() { a.showError(err) })
					return
				}
				a.session.UpdateUser(session.UserPatch{Grade: &grade})
			}()
		}
		gradeRow = container.NewHBox(widget.NewLabel("Klassenstufe:"), gradeSelect)
	}

	recentBox := container.NewVBox(widget.NewLabelWithStyle("Letzte Aufgaben", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	answers, err := a.cache.RecentAnswers(8)
	if err != nil {
		slog.Debug("recent answers unavailable", "err", err)
	}
	if len(answers) == 0 {
		recentBox.Add(widget.NewLabel("Noch keine Aufgaben gelöst."))
	}
	for _, ans := range answers {
		mark := "✗"
		if ans.Correct {
			mark = "✓"
		}
		recentBox.Add(widget.NewLabel(fmt.Sprintf("%s  %s · Klasse %d · %s (+%d XP)",
			mark, ans.Topic, ans.Grade, ans.AnsweredAt.Local().Format("02.01. 15:04"), ans.XPEarned)))
	}

	return container.NewVBox(
		greeting,
		statsLabel,
		xpBar,
		streakLabel,
		badgesLabel,
		gradeRow,
		widget.NewSeparator(),
		buttons,
		widget.NewSeparator(),
		container.NewVScroll(recentBox),
	)
}

func badgeLine(badges []string) string {
	if len(badges) == 0 {
		return "Noch keine Abzeichen"
	}
	return "Abzeichen: " + strings.Join(badges, ", ")
}

// ----- Practice -----

func (a *App) practiceView() fyne.CanvasObject {
	user := a.session.User()

	gradeSelect := widget.NewSelect(gradeOptions(), nil)
	if user != nil && user.Grade != nil {
		gradeSelect.SetSelected(strconv.Itoa(*user.Grade))
	}

	topicSelect := widget.NewSelect(nil, nil)
	topicSelect.PlaceHolder = "Thema wählen"

	loadTopics := func(grade int) {
		go func() {
			ctx, cancel := a.ctx()
			defer cancel()
			topics, err := a.api.Topics(ctx, grade)
			if err != nil {
				fyne.Do(func() { a.showError(err) })
				return
			}
			names := make([]string, 0, len(topics))
			for _, t := range topics {
				names = append(names, t.Name)
			}
			fyne.Do(func() {
				topicSelect.Options = names
				topicSelect.ClearSelected()
				topicSelect.Refresh()
			})
		}()
	}
	gradeSelect.OnChanged = func(selected string) {
		if g, err := strconv.Atoi(selected); err == nil {
			loadTopics(g)
		}
	}
	if gradeSelect.Selected != "" {
		if g, err := strconv.Atoi(gradeSelect.Selected); err == nil {
			loadTopics(g)
		}
	}

	startBtn := widget.NewButtonWithIcon("Los geht's", theme.MediaPlayIcon(), func() {
		a.sound.Play(sound.EventClick)
		grade, err := strconv.Atoi(gradeSelect.Selected)
		if err != nil || topicSelect.Selected == "" {
			a.showError(fmt.Errorf("bitte Klasse und Thema wählen"))
			return
		}
		a.startPractice(grade, topicSelect.Selected)
	})
	startBtn.Importance = widget.HighImportance

	recommendBtn := widget.NewButton("Empfohlene Aufgaben", func() {
		a.sound.Play(sound.EventClick)
		go func() {
			ctx, cancel := a.ctx()
			defer cancel()
			tasks, err := a.api.Recommendations(ctx)
			if err != nil {
				fyne.Do(func() { a.showError(err) })
				return
			}
			if len(tasks) == 0 {
				fyne.Do(func() {
					dialog.ShowInformation("Empfehlungen", "Gerade keine Empfehlungen. Einfach frei üben!", a.window)
				})
				return
			}
			if err := a.cache.SaveTasks(tasks); err != nil {
				slog.Debug("cache tasks failed", "err", err)
			}
			fyne.Do(func() { a.setView(a.taskRunner(tasks, nil)) })
		}()
	})

	form := container.NewVBox(
		widget.NewLabelWithStyle("Üben", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Klasse:"), gradeSelect),
		container.NewHBox(widget.NewLabel("Thema:"), topicSelect),
		startBtn,
		widget.NewSeparator(),
		recommendBtn,
	)
	return container.NewVScroll(form)
}

// startPractice loads the task list, falling back to the local cache when
// the backend is unreachable.
func (a *App) startPractice(grade int, topic string) {
	go func() {
		ctx, cancel := a.ctx()
		defer cancel()
		tasks, err := a.api.Tasks(ctx, grade, topic)
		if err != nil {
			cached, cerr := a.cache.TasksFor(grade, topic)
			if cerr != nil || len(cached) == 0 {
				fyne.Do(func() { a.showError(err) })
				return
			}
			slog.Info("serving tasks from local cache", "grade", grade, "topic", topic, "count", len(cached))
			tasks = cached
		} else if err := a.cache.SaveTasks(tasks); err != nil {
			slog.Debug("cache tasks failed", "err", err)
		}
		if len(tasks) == 0 {
			fyne.Do(func() {
				dialog.ShowInformation("Üben", "Für dieses Thema gibt es noch keine Aufgaben.", a.window)
			})
			return
		}
		fyne.Do(func() { a.setView(a.taskRunner(tasks, nil)) })
	}()
}

// submitFunc grades one answer. The practice runner and the challenge
// runner differ only in how the answer reaches the backend.
type submitFunc func(ctx context.Context, taskID, answer string) (*model.SubmitResult, bool, error)

// taskRunner renders one task at a time and walks through the list.
// A nil submit grades against the regular practice endpoint.
func (a *App) taskRunner(tasks []model.Task, submit submitFunc) fyne.CanvasObject {
	if submit == nil {
		submit = func(ctx context.Context, taskID, answer string) (*model.SubmitResult, bool, error) {
			res, err := a.api.SubmitAnswer(ctx, taskID, answer)
			return res, false, err
		}
	}

	wrapper := container.NewStack()
	var show func(idx int)
	show = func(idx int) {
		if idx >= len(tasks) {
			doneLabel := widget.NewLabelWithStyle("Alle Aufgaben geschafft!", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
			backBtn := widget.NewButton("Zurück zum Dashboard", func() {
				a.sound.Play(sound.EventClick)
				a.navigate(RouteDashboard)
			})
			wrapper.Objects = []fyne.CanvasObject{container.NewCenter(container.NewVBox(doneLabel, backBtn))}
			wrapper.Refresh()
			return
		}
		wrapper.Objects = []fyne.CanvasObject{a.taskView(tasks[idx], idx, len(tasks), submit, func() { show(idx + 1) })}
		wrapper.Refresh()
	}
	show(0)
	return wrapper
}

func (a *App) taskView(task model.Task, idx, total int, submit submitFunc, next func()) fyne.CanvasObject {
	header := widget.NewLabel(fmt.Sprintf("Aufgabe %d von %d · %s · %d XP", idx+1, total, task.Topic, task.XPReward))
	header.TextStyle = fyne.TextStyle{Italic: true}

	question := widget.NewLabel(task.Question)
	question.Wrapping = fyne.TextWrapWord
	question.TextStyle = fyne.TextStyle{Bold: true}

	feedback := widget.NewLabel("")
	feedback.Wrapping = fyne.TextWrapWord
	nextBtn := widget.NewButtonWithIcon("Weiter", theme.NavigateNextIcon(), func() {
		a.sound.Play(sound.EventClick)
		next()
	})
	nextBtn.Hide()

	answered := false
	grade := func(answer string, disable func()) {
		if answered {
			return
		}
		answered = true
		disable()
		go func() {
			ctx, cancel := a.ctx()
			defer cancel()
			result, challengeDone, err := submit(ctx, task.ID, answer)
			if err != nil {
				fyne.Do(func() {
					answered = false
					a.showError(err)
				})
				return
			}
			a.handleResult(task, answer, result, challengeDone)
			fyne.Do(func() {
				if result.Correct {
					feedback.SetText(fmt.Sprintf("Richtig! +%d XP", result.XPEarned))
				} else {
					text := fmt.Sprintf("Leider falsch. Richtig wäre: %s", result.CorrectAnswer)
					if result.Explanation != "" {
						text += "\n" + result.Explanation
					}
					feedback.SetText(text)
				}
				nextBtn.Show()
			})
		}()
	}

	var answerArea fyne.CanvasObject
	if len(task.Options) > 0 {
		var optionBtns []*widget.Button
		box := container.NewVBox()
		for _, opt := range task.Options {
			opt := opt
			btn := widget.NewButton(opt, nil)
			btn.OnTapped = func() {
				a.sound.Play(sound.EventClick)
				grade(opt, func() {
					for _, b := range optionBtns {
						b.Disable()
					}
				})
			}
			optionBtns = append(optionBtns, btn)
			box.Add(btn)
		}
		answerArea = box
	} else {
		entry := widget.NewEntry()
		entry.SetPlaceHolder("Deine Antwort")
		submitBtn := widget.NewButtonWithIcon("Antworten", theme.ConfirmIcon(), nil)
		submitBtn.OnTapped = func() {
			answer := strings.TrimSpace(entry.Text)
			if answer == "" {
				return
			}
			a.sound.Play(sound.EventClick)
			grade(answer, func() {
				entry.Disable()
				submitBtn.Disable()
			})
		}
		entry.OnSubmitted = func(string) { submitBtn.OnTapped() }
		answerArea = container.NewVBox(entry, submitBtn)
	}

	return container.NewVBox(
		header,
		widget.NewSeparator(),
		question,
		answerArea,
		widget.NewSeparator(),
		feedback,
		nextBtn,
	)
}

// handleResult plays the matching cues, journals the answer, and refreshes
// the cached user so the dashboard numbers stay current.
func (a *App) handleResult(task model.Task, answer string, result *model.SubmitResult, challengeDone bool) {
	if result.Correct {
		a.sound.Play(sound.EventSuccess)
	} else {
		a.sound.Play(sound.EventError)
	}
	if result.LeveledUp {
		a.sound.Play(sound.EventLevelUp)
	}
	if len(result.NewBadges) > 0 {
		a.sound.Play(sound.EventBadge)
	}
	if challengeDone {
		a.sound.Play(sound.EventChallengeComplete)
	}

	if err := a.cache.RecordAnswer(store.Answer{
		TaskID:   task.ID,
		Topic:    task.Topic,
		Grade:    task.Grade,
		Answer:   answer,
		Correct:  result.Correct,
		XPEarned: result.XPEarned,
	}); err != nil {
		slog.Debug("journal answer failed", "err", err)
	}

	a.session.UpdateUser(session.UserPatch{XP: &result.NewXP, Level: &result.NewLevel, Badges: result.NewBadges})
	go func() {
		ctx, cancel := a.ctx()
		defer cancel()
		if err := a.session.RefreshUser(ctx); err != nil {
			slog.Debug("user refresh failed", "err", err)
		}
	}()
}

// ----- Challenges -----

func (a *App) openChallenge(kind string) {
	go func() {
		ctx, cancel := a.ctx()
		defer cancel()

		var challenge *model.Challenge
		var err error
		if kind == "weekly" {
			challenge, err = a.api.WeeklyChallenge(ctx)
		} else {
			challenge, err = a.api.DailyChallenge(ctx)
		}
		if err != nil {
			fyne.Do(func() { a.showError(err) })
			return
		}
		if challenge.Completed {
			fyne.Do(func() {
				dialog.ShowInformation("Challenge", "Schon geschafft! Morgen gibt es eine neue Challenge.", a.window)
			})
			return
		}
		if len(challenge.Tasks) == 0 {
			fyne.Do(func() {
				dialog.ShowInformation("Challenge", "Gerade keine Challenge verfügbar.", a.window)
			})
			return
		}

		submit := func(ctx context.Context, taskID, answer string) (*model.SubmitResult, bool, error) {
			res, err := a.api.SubmitChallengeAnswer(ctx, challenge.ID, taskID, answer)
			if err != nil {
				return nil, false, err
			}
			return &res.SubmitResult, res.ChallengeComplete, nil
		}
		fyne.Do(func() {
			a.route = RouteChallenge
			title := fmt.Sprintf("Tages-Challenge · Bonus %d XP", challenge.BonusXP)
			if kind == "weekly" {
				title = fmt.Sprintf("Wochen-Challenge · Bonus %d XP", challenge.BonusXP)
			}
			a.setView(container.NewBorder(
				widget.NewLabelWithStyle(title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
				nil, nil, nil,
				a.taskRunner(challenge.Tasks, submit),
			))
		})
	}()
}

// ----- Progress -----

func (a *App) progressView() fyne.CanvasObject {
	totalLabel := widget.NewLabel("Lade Fortschritt...")
	topicsBox := container.NewVBox()

	go func() {
		ctx, cancel := a.ctx()
		defer cancel()
		overview, err := a.api.ProgressOverview(ctx)
		if err != nil {
			fyne.Do(func() { a.showError(err) })
			return
		}
		fyne.Do(func() {
			totalLabel.SetText(fmt.Sprintf("Insgesamt: %d von %d richtig", overview.TotalCorrect, overview.TotalAttempted))
			topicsBox.Objects = nil
			for _, tp := range overview.Topics {
				bar := widget.NewProgressBar()
				bar.Min = 0
				bar.Max = 1
				bar.SetValue(tp.Accuracy)
				topicsBox.Add(widget.NewLabel(fmt.Sprintf("Klasse %d · %s (%d/%d)", tp.Grade, tp.Topic, tp.Correct, tp.Attempted)))
				topicsBox.Add(bar)
			}
			topicsBox.Refresh()
		})
	}()

	return container.NewBorder(
		container.NewVBox(
			widget.NewLabelWithStyle("Dein Fortschritt", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			totalLabel,
			widget.NewSeparator(),
		),
		nil, nil, nil,
		container.NewVScroll(topicsBox),
	)
}

// ----- Admin -----

func (a *App) adminView() fyne.CanvasObject {
	statsLabel := widget.NewLabel("Lade Statistiken...")

	var students []model.StudentSummary
	studentList := widget.NewList(
		func() int { return len(students) },
		func() fyne.CanvasObject { return widget.NewLabel("Platzhalter") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(students) {
				return
			}
			s := students[id]
			grade := "-"
			if s.Grade != nil {
				grade = strconv.Itoa(*s.Grade)
			}
			obj.(*widget.Label).SetText(fmt.Sprintf("%s · Klasse %s · Level %d · %d/%d richtig",
				s.Name, grade, s.Level, s.Correct, s.Attempted))
		},
	)

	refresh := func() {
		go func() {
			ctx, cancel := a.ctx()
			defer cancel()
			stats, err := a.api.AdminStats(ctx)
			if err != nil {
				fyne.Do(func() { a.showError(err) })
				return
			}
			list, err := a.api.Students(ctx)
			if err != nil {
				fyne.Do(func() { a.showError(err) })
				return
			}
			fyne.Do(func() {
				statsLabel.SetText(fmt.Sprintf("%d Schüler · %d Aufgaben · %d Antworten · %d heute aktiv",
					stats.StudentCount, stats.TaskCount, stats.AnswerCount, stats.ActiveToday))
				students = list
				studentList.Refresh()
			})
		}()
	}
	refresh()

	newTaskBtn := widget.NewButtonWithIcon("Neue Aufgabe", theme.ContentAddIcon(), func() {
		a.sound.Play(sound.EventClick)
		a.showCreateTaskDialog(refresh)
	})
	importBtn := widget.NewButtonWithIcon("CSV-Import", theme.UploadIcon(), func() {
		a.sound.Play(sound.EventClick)
		a.showImportDialog(refresh)
	})
	refreshBtn := widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), func() {
		a.sound.Play(sound.EventClick)
		refresh()
	})

	header := container.NewVBox(
		widget.NewLabelWithStyle("Verwaltung", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		statsLabel,
		container.NewHBox(newTaskBtn, importBtn, refreshBtn),
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Schüler", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	return container.NewBorder(header, nil, nil, nil, studentList)
}

func (a *App) showCreateTaskDialog(onCreated func()) {
	gradeSelect := widget.NewSelect(gradeOptions(), nil)
	topicEntry := widget.NewEntry()
	questionEntry := widget.NewMultiLineEntry()
	questionEntry.SetMinRowsVisible(3)
	optionsEntry := widget.NewEntry()
	optionsEntry.SetPlaceHolder("Antwortoptionen, durch ; getrennt (leer = Freitext)")
	explanationEntry := widget.NewEntry()
	xpEntry := widget.NewEntry()
	xpEntry.SetText("10")

	d := dialog.NewForm("Neue Aufgabe", "Anlegen", "Abbrechen",
		[]*widget.FormItem{
			widget.NewFormItem("Klasse", gradeSelect),
			widget.NewFormItem("Thema", topicEntry),
			widget.NewFormItem("Frage", questionEntry),
			widget.NewFormItem("Optionen", optionsEntry),
			widget.NewFormItem("Erklärung", explanationEntry),
			widget.NewFormItem("XP", xpEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			grade, err := strconv.Atoi(gradeSelect.Selected)
			if err != nil {
				a.showError(fmt.Errorf("bitte eine Klasse wählen"))
				return
			}
			task := model.Task{
				Grade:       grade,
				Topic:       strings.TrimSpace(topicEntry.Text),
				Question:    strings.TrimSpace(questionEntry.Text),
				Explanation: strings.TrimSpace(explanationEntry.Text),
			}
			if task.Topic == "" || task.Question == "" {
				a.showError(fmt.Errorf("Thema und Frage sind erforderlich"))
				return
			}
			for _, opt := range strings.Split(optionsEntry.Text, ";") {
				if opt = strings.TrimSpace(opt); opt != "" {
					task.Options = append(task.Options, opt)
				}
			}
			if xp, err := strconv.Atoi(strings.TrimSpace(xpEntry.Text)); err == nil {
				task.XPReward = xp
			}
			go func() {
				ctx, cancel := a.ctx()
				defer cancel()
				if _, err := a.api.CreateTask(ctx, task); err != nil {
					fyne.Do(func() { a.showError(err) })
					return
				}
				a.sound.Play(sound.EventSuccess)
				onCreated()
			}()
		}, a.window)
	d.Resize(fyne.NewSize(480, 420))
	d.Show()
}

func (a *App) showImportDialog(onImported func()) {
	csvEntry := widget.NewMultiLineEntry()
	csvEntry.SetPlaceHolder("CSV hier einfügen...\ngrade,topic,question,options,answer,explanation,xp\n5,Brüche,1/2 + 1/4 = ?,3/4;2/6,3/4,Gleichnamig machen.,10")
	csvEntry.SetMinRowsVisible(12)

	d := dialog.NewForm("Aufgaben importieren", "Importieren", "Abbrechen",
		[]*widget.FormItem{
			widget.NewFormItem("CSV", csvEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			data := strings.TrimSpace(csvEntry.Text)
			if data == "" {
				return
			}
			go func() {
				ctx, cancel := a.ctx()
				defer cancel()
				result, err := a.api.ImportTasksCSV(ctx, "import.csv", strings.NewReader(data))
				if err != nil {
					fyne.Do(func() { a.showError(err) })
					return
				}
				a.sound.Play(sound.EventSuccess)
				onImported()
				fyne.Do(func() {
					message := fmt.Sprintf("%d Aufgaben importiert.", result.Imported)
					if len(result.Errors) > 0 {
						message += fmt.Sprintf("\n%d Zeilen übersprungen:\n%s", len(result.Errors), strings.Join(result.Errors, "\n"))
					}
					dialog.ShowInformation("Import", message, a.window)
				})
			}()
		}, a.window)
	d.Resize(fyne.NewSize(520, 420))
	d.Show()
}
