package cli

import "dbhelper/bvalue"

// Contact is the record type the CLI manages.
type Contact struct {
	ID    string `bson:"_id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
	Age   int    `bson:"age" json:"age"`
}

func (*Contact) EntityName() string       { return "contact" }
func (c *Contact) RecordID() bvalue.Value { return bvalue.FromString(c.ID) }
