package memdb

import (
	"github.com/hashicorp/go-memdb"
)

// MemDB wraps a single table of a go-memdb database.
type MemDB struct {
	Name string
	Db   *memdb.MemDB
}

func InitSchema(name string, schema *memdb.DBSchema) (*MemDB, error) {
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, err
	}

	return &MemDB{Db: db, Name: name}, nil
}

func (m *MemDB) Find(index string, args ...interface{}) []interface{} {
	txn := m.Db.Txn(false)

	it, err := txn.Get(m.Name, index, args...)
	if err != nil {
		return []interface{}{}
	}

	res := []interface{}{}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		res = append(res, obj)
	}

	return res
}

// Range returns objects whose index value lies in [from, to], in index order.
func (m *MemDB) Range(index string, from, to string, key func(interface{}) string) ([]interface{}, error) {
	txn := m.Db.Txn(false)

	it, err := txn.LowerBound(m.Name, index, from)
	if err != nil {
		return nil, err
	}

	res := []interface{}{}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		if key(obj) > to {
			break
		}
		res = append(res, obj)
	}

	return res, nil
}

func (m *MemDB) FindOne(index string, args ...interface{}) (interface{}, error) {
	txn := m.Db.Txn(false)

	raw, err := txn.First(m.Name, index, args...)
	if err != nil {
		return nil, err
	}

	return raw, nil
}

func (m *MemDB) Create(data interface{}) error {
	txn := m.Db.Txn(true)

	if e := txn.Insert(m.Name, data); e != nil {
		txn.Abort()
		return e
	}

	txn.Commit()

	return nil
}

func (m *MemDB) Clear(index string, args ...interface{}) (int, error) {
	txn := m.Db.Txn(true)

	status, err := txn.DeleteAll(m.Name, index, args...)
	if err != nil {
		txn.Abort()

		return status, err
	}

	txn.Commit()

	return status, nil
}
