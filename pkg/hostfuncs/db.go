package hostfuncs

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/antibyte/tinyscript/pkg/logger"
	"github.com/antibyte/tinyscript/pkg/tinyscript"
)

// DBOPEN(path$) opens a SQLite database and returns its handle. Use
// ":memory:" for a throwaway in-memory database.
func fnDBOpen(ip *tinyscript.Interp, argv []tinyscript.Value) tinyscript.Value {
	h := hostOf(ip)
	path := ip.ArgString(argv, 0)

	slot := -1
	for i, db := range h.dbs {
		if db == nil {
			slot = i
			break
		}
	}
	if slot < 0 {
		ip.Throw("too many open databases")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		logger.Error(logger.AreaDatabase, "DBOPEN %q failed: %v", path, err)
		ip.Throw("unable to DBOPEN() database")
	}
	// a second pool connection would see a different ":memory:" database
	db.SetMaxOpenConns(1)
	h.dbs[slot] = db
	logger.Debug(logger.AreaDatabase, "opened database %q as handle %d", path, slot)
	return tinyscript.IntVal(slot)
}

// dbAt validates a handle argument and returns its connection.
func dbAt(ip *tinyscript.Interp, h *Host, argv []tinyscript.Value, fn string) *sql.DB {
	idx := ip.ArgInt(argv, 0)
	if idx < 0 || idx >= len(h.dbs) || h.dbs[idx] == nil {
		ip.Throw("invalid database handle in %s", fn)
	}
	return h.dbs[idx]
}

// DBCLOSE(d) closes a handle returned by DBOPEN().
func fnDBClose(ip *tinyscript.Interp, argv []tinyscript.Value) tinyscript.Value {
	h := hostOf(ip)
	db := dbAt(ip, h, argv, "DBCLOSE()")
	db.Close()
	h.dbs[ip.ArgInt(argv, 0)] = nil
	return tinyscript.IntVal(0)
}

// DBEXEC(d, sql$) runs a statement that returns no rows and reports the
// number of rows it affected.
func fnDBExec(ip *tinyscript.Interp, argv []tinyscript.Value) tinyscript.Value {
	h := hostOf(ip)
	db := dbAt(ip, h, argv, "DBEXEC()")
	query := ip.ArgString(argv, 1)

	res, err := db.Exec(query)
	if err != nil {
		ip.Throw("in DBEXEC(): %v", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		affected = 0
	}
	return tinyscript.IntVal(int(affected))
}

// DBQUERY(d, sql$) runs a query and copies the result into script
// variables: _db$[] holds the cells row-major from index 0, _dbrows and
// _dbcols hold the result dimensions. It returns the number of rows.
// NULL cells are stored as "".
func fnDBQuery(ip *tinyscript.Interp, argv []tinyscript.Value) tinyscript.Value {
	h := hostOf(ip)
	db := dbAt(ip, h, argv, "DBQUERY()")
	query := ip.ArgString(argv, 1)

	rows, err := db.Query(query)
	if err != nil {
		ip.Throw("in DBQUERY(): %v", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		ip.Throw("in DBQUERY(): %v", err)
	}

	cells := make([]sql.NullString, len(cols))
	dest := make([]interface{}, len(cols))
	for i := range cells {
		dest[i] = &cells[i]
	}

	n := 0
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			ip.Throw("in DBQUERY(): %v", err)
		}
		for i, c := range cells {
			ip.SetString(fmt.Sprintf("_db$[%d]", n*len(cols)+i), c.String)
		}
		n++
	}
	if err := rows.Err(); err != nil {
		ip.Throw("in DBQUERY(): %v", err)
	}

	ip.SetInt("_dbrows", n)
	ip.SetInt("_dbcols", len(cols))
	return tinyscript.IntVal(n)
}
