package catalogue

// FurnitureName returns the item name of a furniture row, or "".
func FurnitureName(l Lookup, rowID uint32) string {
	if f, ok := l.Furniture(rowID); ok && f.Item != nil {
		return f.Item.Name
	}
	return ""
}

// YardObjectName returns the item name of a yard object row, or "".
func YardObjectName(l Lookup, rowID uint32) string {
	if y, ok := l.YardObject(rowID); ok && y.Item != nil {
		return y.Item.Name
	}
	return ""
}

// ObjectName names a placed housing object, trying furniture first and yard objects second.
func ObjectName(l Lookup, rowID uint32) string {
	if l == nil {
		return ""
	}
	if name := FurnitureName(l, rowID); name != "" {
		return name
	}
	return YardObjectName(l, rowID)
}
