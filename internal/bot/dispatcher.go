package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recipebot/internal/entity"
	"recipebot/internal/pkg/logger"
	"recipebot/internal/repository/contract"
	"recipebot/internal/service"
	"recipebot/pkg/callback"
	"recipebot/pkg/extractor"
	"recipebot/pkg/resolver"
	"recipebot/pkg/store"
)

type Settings struct {
	PageSize        int
	SessionTTL      time.Duration
	EditIdleTimeout time.Duration
}

type Dependencies struct {
	Sessions  contract.SessionRepository
	Recipes   service.IRecipeService
	Users     service.IUserService
	Extractor extractor.Extractor
	Resolver  resolver.Resolver
	Responder Responder
	Logger    logger.ILogger
	Settings  Settings
}

type command struct {
	description string
	// open commands work without registration.
	open     bool
	workflow store.Workflow
	run      func(t *turn) error
	hidden   bool
}

// MenuEntry is one command as advertised to the chat client.
type MenuEntry struct {
	Command     string
	Description string
}

// Dispatcher routes events to commands, callback routes and the active
// workflow. Sessions are only written back after a turn succeeds, so a
// failed turn leaves the stored session untouched.
type Dispatcher struct {
	sessions  contract.SessionRepository
	users     service.IUserService
	out       Responder
	log       logger.ILogger
	settings  Settings
	workflows map[store.Workflow]workflow
	commands  map[string]command
	order     []string
	routes    []route
}

func NewDispatcher(d Dependencies) *Dispatcher {
	if d.Settings.PageSize < 1 {
		d.Settings.PageSize = 5
	}
	shared := &deps{
		recipes:  d.Recipes,
		engine:   NewFilterEngine(d.Settings.PageSize),
		pageSize: d.Settings.PageSize,
		log:      d.Logger,
	}

	add := newAddWorkflow(shared)
	disp := &Dispatcher{
		sessions: d.Sessions,
		users:    d.Users,
		out:      d.Responder,
		log:      d.Logger,
		settings: d.Settings,
		commands: map[string]command{},
	}
	disp.workflows = map[store.Workflow]workflow{
		store.WorkflowAdd:    add,
		store.WorkflowEdit:   newEditWorkflow(shared),
		store.WorkflowDelete: newDeleteWorkflow(shared),
		store.WorkflowIngest: newIngestWorkflow(shared, d.Resolver, d.Extractor, add),
		store.WorkflowSearch: newSearchWorkflow(shared),
	}
	list := &recipeList{deps: shared}

	disp.command("start", command{description: "Show the welcome message", open: true, run: disp.welcome})
	disp.command("help", command{description: "List commands", open: true, run: disp.help})
	disp.command("register", command{description: "Register your account", open: true, run: disp.register})
	disp.command("add", command{description: "Add a recipe", workflow: store.WorkflowAdd})
	disp.command("ingest", command{description: "Import a recipe from TikTok", workflow: store.WorkflowIngest})
	disp.command("from_tiktok", command{workflow: store.WorkflowIngest, hidden: true})
	disp.command("list", command{description: "Browse your recipes", run: list.run})
	disp.command("search", command{description: "Search by tags and categories", workflow: store.WorkflowSearch})
	disp.command("edit", command{description: "Edit a recipe", workflow: store.WorkflowEdit})
	disp.command("delete", command{description: "Delete a recipe", workflow: store.WorkflowDelete})
	disp.command("cancel", command{description: "Cancel the current action", open: true, run: disp.cancel})

	disp.routes = append(disp.routes, route{
		kind:   kindControl,
		prefix: prefixCancel,
		handle: func(t *turn, tok callback.Token) (bool, error) {
			if tok.Op != callback.OpCancel {
				return false, nil
			}
			t.s.Clear()
			return true, t.show(msgCancelled, nil)
		},
	})
	disp.routes = append(disp.routes, list.routes()...)
	for _, wf := range []store.Workflow{store.WorkflowAdd, store.WorkflowIngest, store.WorkflowEdit, store.WorkflowDelete, store.WorkflowSearch} {
		disp.routes = append(disp.routes, disp.workflows[wf].routes()...)
	}
	sortRoutes(disp.routes)
	return disp
}

func (d *Dispatcher) command(name string, c command) {
	d.commands[name] = c
	d.order = append(d.order, name)
}

// Menu lists the advertised commands in registration order.
func (d *Dispatcher) Menu() []MenuEntry {
	out := make([]MenuEntry, 0, len(d.order))
	for _, name := range d.order {
		if c := d.commands[name]; !c.hidden {
			out = append(out, MenuEntry{Command: name, Description: c.description})
		}
	}
	return out
}

// Handle processes one event. Handler failures are reported to the user and
// logged, the returned error is only about the session store.
func (d *Dispatcher) Handle(ctx context.Context, ev Event) error {
	key := store.Key(ev.UserID, ev.ChatID)
	s, found, err := d.sessions.Get(ctx, key)
	if err != nil {
		d.notifyFailure(ctx, ev, err)
		return fmt.Errorf("load session %s: %w", key, err)
	}
	if !found {
		s = store.NewSession(ev.UserID, ev.ChatID)
	}

	t := &turn{ctx: ctx, ev: ev, s: s, out: d.out}
	if err := d.dispatch(t); err != nil {
		d.notifyFailure(ctx, ev, err)
		return nil
	}

	if err := d.persist(ctx, s, found); err != nil {
		return fmt.Errorf("save session %s: %w", key, err)
	}
	return nil
}

func (d *Dispatcher) notifyFailure(ctx context.Context, ev Event, err error) {
	d.log.Error("Dispatcher", "Failed to handle event", map[string]interface{}{
		"user_id": ev.UserID,
		"chat_id": ev.ChatID,
		"type":    ev.Type.String(),
		"error":   err,
	})
	if _, sendErr := d.out.Send(ctx, ev.ChatID, msgGenericError, nil); sendErr != nil {
		d.log.Warn("Dispatcher", "Failed to send error notice", map[string]interface{}{"error": sendErr.Error()})
	}
}

func (d *Dispatcher) persist(ctx context.Context, s *store.Session, existed bool) error {
	if !s.Active() {
		if !existed {
			return nil
		}
		return d.sessions.Clear(ctx, s.Key())
	}
	ttl := d.settings.SessionTTL
	if s.Workflow == store.WorkflowEdit {
		ttl = d.settings.EditIdleTimeout
	}
	return d.sessions.Put(ctx, s, ttl)
}

func (d *Dispatcher) dispatch(t *turn) error {
	d.log.Debug("Dispatcher", "Handling event", map[string]interface{}{
		"user_id":  t.ev.UserID,
		"type":     t.ev.Type.String(),
		"workflow": string(t.s.Workflow),
		"state":    string(t.s.State),
	})
	switch t.ev.Type {
	case EventCommand:
		return d.onCommand(t)
	case EventText:
		return d.onText(t)
	case EventCallback:
		return d.onCallback(t)
	}
	return nil
}

func (d *Dispatcher) authorized(t *turn) (bool, error) {
	ok, err := d.users.IsRegistered(t.ctx, t.ev.UserID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, t.send(msgNotRegistered, nil)
	}
	return true, nil
}

func (d *Dispatcher) onCommand(t *turn) error {
	c, ok := d.commands[t.ev.Command]
	if !ok {
		return t.send(msgUnknownCommand, nil)
	}
	if !c.open {
		if ok, err := d.authorized(t); !ok {
			return err
		}
	}
	if c.workflow != store.WorkflowNone {
		t.s.Begin(c.workflow)
		return d.workflows[c.workflow].start(t, t.ev.Args)
	}
	return c.run(t)
}

func (d *Dispatcher) onText(t *turn) error {
	if !t.s.Active() {
		return t.send(msgNotUnderstood, nil)
	}
	wf, ok := d.workflows[t.s.Workflow]
	if !ok || !store.ValidState(t.s.Workflow, t.s.State) {
		t.s.Clear()
		return t.send(msgExpired, nil)
	}
	return wf.onText(t)
}

// onCallback offers the token to each route in order. A route whose
// workflow is not active answers with an expiry notice unless it is an
// entry route; a route that does not accept the current state re-prompts.
func (d *Dispatcher) onCallback(t *turn) error {
	for _, r := range d.routes {
		tok, ok := callback.Decode(t.ev.Data, r.prefix)
		if !ok {
			continue
		}

		switch {
		case r.workflow == store.WorkflowNone:
			if r.prefix != prefixCancel {
				if ok, err := d.authorized(t); !ok {
					return err
				}
			}
		case t.s.Workflow != r.workflow:
			if !r.entry {
				return t.show(msgExpired, nil)
			}
			if ok, err := d.authorized(t); !ok {
				return err
			}
			t.s.Begin(r.workflow)
		case !r.acceptsState(t.s.State):
			return d.workflows[r.workflow].prompt(t)
		}

		claimed, err := r.handle(t, tok)
		if err != nil || claimed {
			return err
		}
	}

	d.log.Debug("Dispatcher", "Ignoring unclaimed callback", map[string]interface{}{
		"user_id": t.ev.UserID,
		"data":    t.ev.Data,
	})
	return nil
}

func (d *Dispatcher) welcome(t *turn) error {
	return t.send(msgWelcome, nil)
}

func (d *Dispatcher) help(t *turn) error {
	return t.send(msgHelp, nil)
}

func (d *Dispatcher) register(t *turn) error {
	_, err := d.users.Register(t.ctx, &entity.User{
		TelegramId: t.ev.UserID,
		Username:   t.ev.Username,
		FirstName:  t.ev.FirstName,
	})
	if errors.Is(err, service.ErrNotTester) {
		return t.send(msgNotTester, nil)
	}
	if err != nil {
		return err
	}
	return t.send(msgRegistered, nil)
}

func (d *Dispatcher) cancel(t *turn) error {
	if !t.s.Active() {
		return t.send(msgNothingToCancel, nil)
	}
	t.s.Clear()
	return t.send(msgCancelled, RemoveKeyboard())
}
