package di

import (
	"reflect"
	"strings"
)

// paramDescriptor 描述可调用对象的一个参数：声明类型与是否可缺省。
// 描述符在每次反射时重新生成，不做缓存。
type paramDescriptor struct {
	Type     reflect.Type
	Optional bool
}

// fieldDescriptor 描述结构体构造时需要注入的一个字段。
// 只有带 di 标签的导出字段参与构造，顺序与声明顺序一致。
type fieldDescriptor struct {
	Index    int
	Name     string
	Type     reflect.Type
	Optional bool
}

// callableDescriptors 反射函数类型的参数列表。
// 可变参数函数无法逐参数注入，视为不可反射的调用目标。
func callableDescriptors(fnType reflect.Type) ([]paramDescriptor, error) {
	if fnType.Kind() != reflect.Func {
		return nil, errInvalidArgument("callable must be a function, got %v", fnType)
	}
	if fnType.IsVariadic() {
		return nil, errInvalidArgument("variadic function %v cannot be injected", fnType)
	}

	descriptors := make([]paramDescriptor, fnType.NumIn())
	for i := 0; i < fnType.NumIn(); i++ {
		paramType := fnType.In(i)
		descriptors[i] = paramDescriptor{
			Type:     paramType,
			Optional: isOptionalType(paramType),
		}
	}
	return descriptors, nil
}

// classDescriptors 反射结构体类型的注入字段。
// 标签语法沿用 di:"" / di:"?" / di:"optional"。
func classDescriptors(typ reflect.Type) ([]fieldDescriptor, error) {
	base := derefStruct(typ)
	if base == nil {
		return nil, errInvalidArgument("class type must be a struct or struct pointer, got %v", typ)
	}

	var descriptors []fieldDescriptor
	for i := 0; i < base.NumField(); i++ {
		field := base.Field(i)
		tagValue, hasTag := field.Tag.Lookup("di")
		if !hasTag {
			continue
		}
		if !field.IsExported() {
			return nil, errInvalidArgument("injected field %s.%s must be exported", base, field.Name)
		}

		descriptors = append(descriptors, fieldDescriptor{
			Index:    i,
			Name:     field.Name,
			Type:     field.Type,
			Optional: tagIsOptional(tagValue),
		})
	}
	return descriptors, nil
}

// tagIsOptional 解析 di 标签是否声明了可缺省
func tagIsOptional(tagValue string) bool {
	for _, part := range strings.Split(tagValue, ",") {
		part = strings.TrimSpace(part)
		if part == "?" || part == "optional" {
			return true
		}
	}
	return false
}
