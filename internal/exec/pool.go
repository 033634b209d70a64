package exec

import (
	"sync"
)

const (
	maxFieldMapSize = 128
	newFieldMapSize = 16
)

var fieldMapPool = sync.Pool{
	New: func() interface{} {
		return make(map[string]*fieldToExec, newFieldMapSize)
	},
}

func getFieldMap() map[string]*fieldToExec {
	return fieldMapPool.Get().(map[string]*fieldToExec)
}

func putFieldMap(m map[string]*fieldToExec) {
	if len(m) > maxFieldMapSize {
		return
	}
	for k := range m {
		delete(m, k)
	}
	fieldMapPool.Put(m)
}
