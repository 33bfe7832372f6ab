package indexer

import "github.com/google/uuid"

// documentNamespace seeds document IDs so the same file name always maps to the same ID.
var documentNamespace = uuid.MustParse("6f1c2a8e-3b7d-5e4f-9a10-d0113b0ca7e1")

// DocumentID returns the stable ID of the document stored under fileName.
func DocumentID(fileName string) string {
	return uuid.NewSHA1(documentNamespace, []byte(fileName)).String()
}

// ChunkID returns the stable ID of the chunk read from cellAddress of sheet.
// IDs are valid UUIDs so Qdrant accepts them as point IDs.
func ChunkID(documentID, sheet, cellAddress string) string {
	ns, err := uuid.Parse(documentID)
	if err != nil {
		ns = uuid.NewSHA1(documentNamespace, []byte(documentID))
	}
	return uuid.NewSHA1(ns, []byte(sheet+"!"+cellAddress)).String()
}
