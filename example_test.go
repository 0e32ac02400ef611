package crud_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/jjeffery/crud"
	_ "modernc.org/sqlite"
)

func Example() {
	ctx := context.Background()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("create table Users (ID integer primary key autoincrement, Name text, Email text)"); err != nil {
		log.Fatal(err)
	}

	type User struct {
		ID    int64 `sql:"key"`
		Name  string
		Email string
	}

	schema := crud.NewSchema(
		crud.WithDialect(crud.SQLite),
		crud.WithTableName((*User)(nil), "Users"),
	)

	id, err := schema.Insert(ctx, db, &User{Name: "Alice", Email: "alice@example.com"})
	if err != nil {
		log.Fatal(err)
	}

	user, err := crud.Get[*User](ctx, schema, db, id)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(user.ID, user.Name, user.Email)

	user.Email = "alice@example.org"
	updated, err := schema.Update(ctx, db, user)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("updated:", updated)

	deleted, err := schema.Delete(ctx, db, user)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("deleted:", deleted)

	// Output:
	// 1 Alice alice@example.com
	// updated: true
	// deleted: true
}

func ExampleSchema_TableFor() {
	type LineItem struct {
		OrderID  int64 `sql:"explicit key"`
		Line     int   `sql:"explicit key"`
		Quantity int
		Total    int64 `sql:"computed"`
	}

	schema := crud.NewSchema(crud.WithNamingConvention(crud.SnakeCase))
	tbl, err := schema.TableFor(LineItem{})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(tbl.Name())
	for _, col := range tbl.Columns() {
		fmt.Println(col.Name(), col.PrimaryKey(), col.Computed())
	}

	// Output:
	// line_items
	// order_id true false
	// line true false
	// quantity false false
	// total false true
}
