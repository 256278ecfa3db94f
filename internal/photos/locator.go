package photos

import (
	"strconv"
	"strings"
)

// ResourceLocation decodes a legacy resource model id into the folder and file
// ids used under resources/media. The file id is the lowercase hex of the id;
// the folder id is the first two characters of that hex left-padded to four.
func ResourceLocation(modelID int64) (folderID, fileID string) {
	fileID = strconv.FormatInt(modelID, 16)
	padded := fileID
	if len(padded) < 4 {
		padded = strings.Repeat("0", 4-len(padded)) + padded
	}
	return padded[:2], fileID
}
