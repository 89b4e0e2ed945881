package domain

var Tables = []interface{}{
	&Ingredient{},
}
