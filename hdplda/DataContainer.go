package hdplda

import (
	"fmt"
	"strings"
)

// DataContainer maps token sequences to the term id documents a State is
// built from. Ids are handed out in first-seen order.
type DataContainer struct {
	Sents [][]string
	Docs  [][]int
	Size  int

	word2id map[string]int
	id2word []string
}

// NewDataContainer returns DataContainer instance.
// Tokens are lowercased and empty tokens are dropped; documents left empty
// are kept so document indexes line up with sents.
func NewDataContainer(sents [][]string) *DataContainer {
	dataContainer := new(DataContainer)
	dataContainer.word2id = make(map[string]int)

	for _, sent := range sents {
		lowered := make([]string, 0, len(sent))
		doc := make([]int, 0, len(sent))
		for _, token := range sent {
			word := strings.ToLower(token)
			if word == "" {
				continue
			}
			id, ok := dataContainer.word2id[word]
			if !ok {
				id = len(dataContainer.id2word)
				dataContainer.word2id[word] = id
				dataContainer.id2word = append(dataContainer.id2word, word)
			}
			lowered = append(lowered, word)
			doc = append(doc, id)
		}
		dataContainer.Sents = append(dataContainer.Sents, lowered)
		dataContainer.Docs = append(dataContainer.Docs, doc)
	}
	dataContainer.Size = len(dataContainer.Docs)
	return dataContainer
}

// V returns the vocabulary size.
func (dataContainer *DataContainer) V() int {
	return len(dataContainer.id2word)
}

// ID returns the term id of word.
func (dataContainer *DataContainer) ID(word string) (int, bool) {
	id, ok := dataContainer.word2id[strings.ToLower(word)]
	return id, ok
}

// Word returns the word of term id.
func (dataContainer *DataContainer) Word(id int) string {
	if id < 0 || id >= len(dataContainer.id2word) {
		errMsg := fmt.Sprintf("Word error. id (%v) out of range [0, %v)", id, len(dataContainer.id2word))
		panic(errMsg)
	}
	return dataContainer.id2word[id]
}

// GetSentString returns i-th sent joined by spaces.
func (dataContainer *DataContainer) GetSentString(i int) string {
	if i < 0 || i >= dataContainer.Size {
		errMsg := fmt.Sprintf("GetSentString error. index i (%v) is out of range [0, %v)", i, dataContainer.Size)
		panic(errMsg)
	}
	return strings.Join(dataContainer.Sents[i], " ")
}

// ModelDefinition returns the definition matching the container.
func (dataContainer *DataContainer) ModelDefinition() (ModelDefinition, error) {
	return NewModelDefinition(dataContainer.Size, dataContainer.V())
}
