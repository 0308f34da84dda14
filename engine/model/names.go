package model

import "strconv"

func InlineName(subModel int) string {
	return "*" + strconv.Itoa(subModel)
}
