package domain

// Tables lists the persisted models. The product aggregate is absent:
// it is derived state, recomputed from the transaction log at startup.
var Tables = []interface{}{
	&Transaction{},
	&LoyaltyAccount{},
	&SysBlob{},
}
