/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package kvbridge

import "strconv"

// CounterKey is the INCR counter that allocates ids for modelName.
func CounterKey(modelName string) string {
	return "id:" + modelName
}

// RecordKey is the hash holding one record. It is also the member stored in index sets.
func RecordKey(modelName string, id int64) string {
	return modelName + ":" + strconv.FormatInt(id, 10)
}

// IndexKey is the set of record keys whose property equals value.
func IndexKey(modelName, property, value string) string {
	return "i:" + modelName + ":" + property + ":" + value
}

// ModelPattern matches every record key of modelName.
func ModelPattern(modelName string) string {
	return modelName + ":*"
}
