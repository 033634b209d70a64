// Package todos is a small todo-list schema with an in-memory store. It shows each
// kind of resolver: plain struct fields, methods taking arguments, interfaces and
// unions resolved by Go type, and fields that return a resolvers.Task.
package todos

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/graph-gophers/graphql-engine/ast"
	"github.com/graph-gophers/graphql-engine/errors"
	"github.com/graph-gophers/graphql-engine/resolvers"
	"github.com/graph-gophers/graphql-engine/schema"
)

func field(name, typ string, args ...*schema.Argument) *schema.Field {
	return &schema.Field{Name: name, Type: schema.MustParseType(typ), Arguments: args}
}

func arg(name, typ string) *schema.Argument {
	return &schema.Argument{Name: name, Type: schema.MustParseType(typ)}
}

// Schema builds the todo schema.
func Schema() *schema.Schema {
	first := arg("first", "Int")
	first.Default = &ast.ScalarValue{Kind: ast.IntValue, Text: "10"}
	return schema.NewBuilder().
		Add(
			&schema.Object{Name: "Query", Fields: schema.FieldList{
				field("todo", "Todo", arg("id", "ID!")),
				field("todos", "[Todo!]!", arg("status", "Status"), first),
				field("user", "User", arg("id", "ID!")),
				field("node", "Node", arg("id", "ID!")),
				field("search", "[SearchResult!]!", arg("text", "String!")),
			}},
			&schema.Object{Name: "Mutation", Fields: schema.FieldList{
				field("addTodo", "Todo!", arg("input", "NewTodo!")),
				field("complete", "Todo", arg("id", "ID!")),
			}},
			&schema.Interface{Name: "Node", Fields: schema.FieldList{
				field("id", "ID!"),
			}},
			&schema.Object{Name: "Todo", Interfaces: []string{"Node"}, Fields: schema.FieldList{
				field("id", "ID!"),
				field("title", "String!"),
				field("status", "Status!"),
				field("tags", "[String!]!"),
				field("owner", "User"),
			}},
			&schema.Object{Name: "User", Interfaces: []string{"Node"}, Fields: schema.FieldList{
				field("id", "ID!"),
				field("name", "String!"),
				field("todos", "[Todo!]!", arg("status", "Status")),
			}},
			&schema.Union{Name: "SearchResult", PossibleTypes: []string{"Todo", "User"}},
			&schema.Enum{Name: "Status", Values: []*schema.EnumValue{
				{Name: "OPEN"},
				{Name: "DONE"},
				{Name: "ARCHIVED", Deprecation: &schema.Deprecation{Reason: "use DONE"}},
			}},
			&schema.InputObject{Name: "NewTodo", Fields: schema.ArgumentList{
				arg("title", "String!"),
				arg("tags", "[String!]"),
				arg("owner", "ID"),
			}},
		).
		Query("Query").
		Mutation("Mutation").
		MustBuild()
}

type Todo struct {
	ID      string
	Title   string
	Status  string
	Tags    []string
	OwnerID string `graphql:"-"`

	store *Store
}

// Owner is looked up lazily so that the owners of a list of todos are resolved in
// the same wave.
func (t *Todo) Owner() resolvers.Task {
	return resolvers.Defer(func(ctx context.Context) (interface{}, error) {
		if t.OwnerID == "" {
			return nil, nil
		}
		u := t.store.User(t.OwnerID)
		if u == nil {
			return nil, errors.NewFieldError("owner not found", map[string]interface{}{"code": "NOT_FOUND", "id": t.OwnerID})
		}
		return u, nil
	})
}

type User struct {
	ID   string
	Name string

	store *Store
}

func (u *User) Todos(args struct{ Status *string }) []*Todo {
	var out []*Todo
	for _, t := range u.store.list(args.Status) {
		if t.OwnerID == u.ID {
			out = append(out, t)
		}
	}
	return out
}

// Store holds the todos and users. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	todos  []*Todo
	users  []*User
	nextID int
}

// NewStore returns a store seeded with two users and three todos.
func NewStore() *Store {
	s := &Store{}
	s.users = []*User{
		{ID: "u1", Name: "Ada", store: s},
		{ID: "u2", Name: "Grace", store: s},
	}
	s.todos = []*Todo{
		{ID: "t1", Title: "write parser", Status: "DONE", Tags: []string{"parser"}, OwnerID: "u1", store: s},
		{ID: "t2", Title: "write executor", Status: "OPEN", Tags: []string{"exec", "core"}, OwnerID: "u1", store: s},
		{ID: "t3", Title: "review validator", Status: "OPEN", OwnerID: "u2", store: s},
	}
	s.nextID = len(s.todos) + 1
	return s
}

func (s *Store) Todo(id string) *Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.todos {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (s *Store) User(id string) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *Store) list(status *string) []*Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Todo, 0, len(s.todos))
	for _, t := range s.todos {
		if status == nil || t.Status == *status {
			out = append(out, t)
		}
	}
	return out
}

func (s *Store) add(title string, tags []string, owner string) *Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &Todo{ID: "t" + strconv.Itoa(s.nextID), Title: title, Status: "OPEN", Tags: tags, OwnerID: owner, store: s}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	s.nextID++
	s.todos = append(s.todos, t)
	return t
}

func (s *Store) complete(id string) *Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.todos {
		if t.ID == id {
			t.Status = "DONE"
			return t
		}
	}
	return nil
}

// Resolver is the root value for queries and mutations.
type Resolver struct {
	Store *Store
}

func (r *Resolver) Todo(args struct{ ID string }) *Todo {
	return r.Store.Todo(args.ID)
}

func (r *Resolver) Todos(args struct {
	Status *string
	First  *int32
}) ([]*Todo, error) {
	todos := r.Store.list(args.Status)
	if args.First != nil {
		if *args.First < 0 {
			return nil, fmt.Errorf("first must not be negative, got %d", *args.First)
		}
		if int(*args.First) < len(todos) {
			todos = todos[:*args.First]
		}
	}
	return todos, nil
}

func (r *Resolver) User(args struct{ ID string }) *User {
	return r.Store.User(args.ID)
}

func (r *Resolver) Node(args struct{ ID string }) interface{} {
	if t := r.Store.Todo(args.ID); t != nil {
		return t
	}
	if u := r.Store.User(args.ID); u != nil {
		return u
	}
	return nil
}

func (r *Resolver) Search(args struct{ Text string }) []interface{} {
	text := strings.ToLower(args.Text)
	out := []interface{}{}
	for _, t := range r.Store.list(nil) {
		if strings.Contains(strings.ToLower(t.Title), text) {
			out = append(out, t)
		}
	}
	r.Store.mu.RLock()
	defer r.Store.mu.RUnlock()
	for _, u := range r.Store.users {
		if strings.Contains(strings.ToLower(u.Name), text) {
			out = append(out, u)
		}
	}
	return out
}

type NewTodo struct {
	Title string
	Tags  []string
	Owner *string
}

func (r *Resolver) AddTodo(args struct{ Input NewTodo }) (*Todo, error) {
	if strings.TrimSpace(args.Input.Title) == "" {
		return nil, errors.NewFieldError("title must not be empty", map[string]interface{}{"code": "INVALID_INPUT"})
	}
	owner := ""
	if args.Input.Owner != nil {
		if r.Store.User(*args.Input.Owner) == nil {
			return nil, fmt.Errorf("unknown user %q", *args.Input.Owner)
		}
		owner = *args.Input.Owner
	}
	return r.Store.add(args.Input.Title, args.Input.Tags, owner), nil
}

func (r *Resolver) Complete(args struct{ ID string }) *Todo {
	return r.Store.complete(args.ID)
}
